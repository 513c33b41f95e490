package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/entity"
)

func floatPtr(f float64) *float64 { return &f }

func TestListingPrice(t *testing.T) {
	rule := &entity.DistributionRule{
		MarginPercent:        floatPtr(10),
		AuctionMarginPercent: floatPtr(15),
	}

	t.Run("regular margin applies to assigned orders", func(t *testing.T) {
		price := ListingPrice(1000, rule, entity.OrderTypeAssigned)
		require.NotNil(t, price)
		assert.InDelta(t, 900, *price, 1e-9)
	})

	t.Run("auction margin applies to auction orders", func(t *testing.T) {
		price := ListingPrice(1000, rule, entity.OrderTypeAuction)
		require.NotNil(t, price)
		assert.InDelta(t, 850, *price, 1e-9)
	})

	t.Run("nil margin means request price", func(t *testing.T) {
		assert.Nil(t, ListingPrice(1000, &entity.DistributionRule{}, entity.OrderTypeFree))
	})

	t.Run("no rule means request price", func(t *testing.T) {
		assert.Nil(t, ListingPrice(1000, nil, entity.OrderTypeAssigned))
	})

	t.Run("zero bid means request price regardless of margin", func(t *testing.T) {
		assert.Nil(t, ListingPrice(0, rule, entity.OrderTypeAssigned))
	})
}

func TestRateWithoutVAT(t *testing.T) {
	// 120000 / 1.2 = 100000, already a multiple of 100.
	assert.Equal(t, int64(100000), RateWithoutVAT(120000))
	// 100000 / 1.2 = 83333.33 -> floored to 83300.
	assert.Equal(t, int64(83300), RateWithoutVAT(100000))
	// 900 / 1.2 = 750 -> floored to 700.
	assert.Equal(t, int64(700), RateWithoutVAT(900))
}
