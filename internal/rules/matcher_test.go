package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/entity"
)

func strPtr(s string) *string { return &s }

func TestMatchCascade(t *testing.T) {
	ruleSet := []entity.DistributionRule{
		{ID: 4, LoadingCity: nil, UnloadingCity: nil, Logistician: "universal"},
		{ID: 3, LoadingCity: nil, UnloadingCity: strPtr("Москва"), Logistician: "to-moscow"},
		{ID: 2, LoadingCity: strPtr("Челябинск"), UnloadingCity: nil, Logistician: "from-chel"},
		{ID: 1, LoadingCity: strPtr("Челябинск"), UnloadingCity: strPtr("Москва"), Logistician: "exact"},
	}

	tests := []struct {
		name          string
		loadingCity   string
		unloadingCity string
		wantID        int64
	}{
		{"exact route beats everything", "Челябинск", "Москва", 1},
		{"loading-city rule beats wildcard", "Челябинск", "Казань", 2},
		{"unloading-city rule beats universal", "Пермь", "Москва", 3},
		{"universal rule catches the rest", "Пермь", "Казань", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Match(ruleSet, tt.loadingCity, tt.unloadingCity)
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantID, rule.ID)
		})
	}
}

func TestMatchNoRule(t *testing.T) {
	ruleSet := []entity.DistributionRule{
		{ID: 1, LoadingCity: strPtr("Челябинск"), UnloadingCity: strPtr("Москва")},
	}

	assert.Nil(t, Match(ruleSet, "Пермь", "Казань"))
	assert.Nil(t, Match(nil, "Челябинск", "Москва"))
}

func TestMatchTierOrderIndependentOfSliceOrder(t *testing.T) {
	// The universal rule listed first must still lose to the exact one.
	ruleSet := []entity.DistributionRule{
		{ID: 9, LoadingCity: nil, UnloadingCity: nil},
		{ID: 5, LoadingCity: strPtr("Омск"), UnloadingCity: strPtr("Тюмень")},
	}

	rule := Match(ruleSet, "Омск", "Тюмень")
	require.NotNil(t, rule)
	assert.Equal(t, int64(5), rule.ID)
}
