package feed

import (
	"context"
	"time"

	"github.com/SKR-SG/ASP/internal/normalize"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Qualify applies the intake filter to one raw feed order: the type-specific
// status must still hold, the load time must parse and lie in the future.
// Rejected orders return (nil, false); they stay in the snapshot's external
// number list but never reach reconciliation.
func Qualify(ctx context.Context, order *FeedOrder, orderType string, now time.Time, log logger.Logger) (*Candidate, bool) {
	var bid float64
	switch orderType {
	case "AUCTION":
		if order.Status != "FREE" || order.Lot == nil || order.Lot.AuctionStatus != "ACTIVE" {
			return nil, false
		}
		if order.Lot.LastBet != nil {
			bid = *order.Lot.LastBet
		} else if order.Lot.StartPrice != nil {
			bid = *order.Lot.StartPrice
		}
	case "FREE":
		if order.Status != "FREE" {
			return nil, false
		}
		if order.Price != nil {
			bid = *order.Price
		}
	default: // ASSIGNED
		if order.Status != "ASSIGNED" {
			return nil, false
		}
		if order.Price != nil {
			bid = *order.Price
		}
	}

	loadDate, err := parseFeedTime(order.LoadingDatetime)
	if err != nil {
		log.Warnf(ctx, "[Feed] order %s has malformed loading datetime %q, skipping", order.ExternalNo, order.LoadingDatetime)
		return nil, false
	}
	if loadDate.Before(now) {
		return nil, false
	}

	var unloadDate *time.Time
	if order.UnloadingDatetime != "" {
		if t, err := parseFeedTime(order.UnloadingDatetime); err == nil {
			unloadDate = &t
		}
	}

	loadingPoint := firstPoint(order.LoadingPlaces)
	unloadingPoint := firstPoint(order.UnloadingPlaces)

	cand := &Candidate{
		ExternalNo:       order.ExternalNo,
		OrderType:        orderType,
		LoadingCity:      normalize.ExtractCity(loadingPoint.Settlement, loadingPoint.Address),
		UnloadingCity:    normalize.ExtractCity(unloadingPoint.Settlement, unloadingPoint.Address),
		LoadingAddress:   loadingPoint.Address,
		UnloadingAddress: unloadingPoint.Address,
		LoadDate:         loadDate,
		UnloadDate:       unloadDate,
		LoadingTypes:     order.LoadingTypes,
		Comment:          order.Comment,
		VehicleType:      order.VehicleRequirements.Name,
		BidPrice:         bid,
	}
	if order.Weight != nil {
		cand.Weight = *order.Weight
	}
	if order.Volume != nil {
		cand.Volume = *order.Volume
	}

	return cand, true
}

// parseFeedTime accepts the ISO-8601 variants the feed is known to send.
func parseFeedTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

func firstPoint(places []Place) StoragePoint {
	if len(places) == 0 {
		return StoragePoint{}
	}
	return places[0].StoragePoint
}
