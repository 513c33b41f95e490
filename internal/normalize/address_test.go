package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreetWithHouse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "street keyword with house number",
			raw:   "г. Москва, ул. Тверская, 1",
			want:  "Тверская 1",
			found: true,
		},
		{
			name:  "street keyword glued to name",
			raw:   "г. Челябинск, ул.Машиностроителей, 10к2",
			want:  "Машиностроителей 10к2",
			found: true,
		},
		{
			name:  "no house number after street",
			raw:   "г. Москва, ул. Тверская",
			want:  "Тверская",
			found: true,
		},
		{
			name:  "avenue keyword",
			raw:   "Санкт-Петербург, Невский проспект, 28",
			want:  "Невский 28",
			found: true,
		},
		{
			name:  "settlement fallback takes next field",
			raw:   "г. Коркино, Заводская, 5",
			want:  "Заводская 5",
			found: true,
		},
		{
			name:  "settlement fallback keeps numbered street",
			raw:   "г. Коркино, 2-я Заводская, 5",
			want:  "2-я Заводская 5",
			found: true,
		},
		{
			name:  "parenthetical and landmark stripped",
			raw:   "г. Москва (склад №3), ул. Дорожная, ориентир 7",
			want:  "Дорожная 7",
			found: true,
		},
		{
			name:  "nothing recognizable",
			raw:   "промзона восточная",
			want:  "",
			found: false,
		},
		{
			name:  "empty input",
			raw:   "",
			want:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StreetWithHouse(tt.raw)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreet(t *testing.T) {
	got, ok := Street("г. Москва, ул. Тверская, 1")
	assert.True(t, ok)
	assert.Equal(t, "Тверская", got)

	_, ok = Street("поле без ориентиров")
	assert.False(t, ok)
}
