package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/pkg/logger"
)

func floatPtr(f float64) *float64 { return &f }

func futureOrder(externalNo, status string) FeedOrder {
	return FeedOrder{
		ExternalNo:      externalNo,
		Status:          status,
		LoadingDatetime: time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		LoadingPlaces: []Place{
			{StoragePoint: StoragePoint{Settlement: "г. Челябинск", Address: "ул. Линейная, 59"}},
		},
		UnloadingPlaces: []Place{
			{StoragePoint: StoragePoint{Settlement: "Москва", Address: "ул. Дорожная, 10"}},
		},
		Price: floatPtr(50000),
	}
}

func TestQualifyAssigned(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	order := futureOrder("ТН0001", "ASSIGNED")
	cand, ok := Qualify(ctx, &order, "ASSIGNED", now, logger.Nop())
	require.True(t, ok)
	assert.Equal(t, "Челябинск", cand.LoadingCity)
	assert.Equal(t, "Москва", cand.UnloadingCity)
	assert.Equal(t, 50000.0, cand.BidPrice)
	assert.Nil(t, cand.UnloadDate)

	// Wrong status no longer qualifies.
	order.Status = "CANCELLED"
	_, ok = Qualify(ctx, &order, "ASSIGNED", now, logger.Nop())
	assert.False(t, ok)
}

func TestQualifyStaleLoadDate(t *testing.T) {
	order := futureOrder("ТН0002", "ASSIGNED")
	order.LoadingDatetime = time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)

	_, ok := Qualify(context.Background(), &order, "ASSIGNED", time.Now().UTC(), logger.Nop())
	assert.False(t, ok)
}

func TestQualifyMalformedDate(t *testing.T) {
	order := futureOrder("ТН0003", "ASSIGNED")
	order.LoadingDatetime = "not-a-date"

	_, ok := Qualify(context.Background(), &order, "ASSIGNED", time.Now().UTC(), logger.Nop())
	assert.False(t, ok)
}

func TestQualifyAuction(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	order := futureOrder("ТН0004", "FREE")
	order.Price = nil
	order.Lot = &Lot{AuctionStatus: "ACTIVE", StartPrice: floatPtr(40000), LastBet: floatPtr(38000)}

	cand, ok := Qualify(ctx, &order, "AUCTION", now, logger.Nop())
	require.True(t, ok)
	assert.Equal(t, 38000.0, cand.BidPrice)

	// Without a bet yet the start price is the bid.
	order.Lot.LastBet = nil
	cand, ok = Qualify(ctx, &order, "AUCTION", now, logger.Nop())
	require.True(t, ok)
	assert.Equal(t, 40000.0, cand.BidPrice)

	// A finished auction no longer qualifies.
	order.Lot.AuctionStatus = "FINISHED"
	_, ok = Qualify(ctx, &order, "AUCTION", now, logger.Nop())
	assert.False(t, ok)
}

func TestSnapshotSeen(t *testing.T) {
	s := &Snapshot{ExternalNos: []string{"a", "b"}}
	assert.True(t, s.Seen("a"))
	assert.False(t, s.Seen("c"))
}
