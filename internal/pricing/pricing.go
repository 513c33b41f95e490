// Package pricing derives the marketplace listing price from the source-side
// bid and a matched distribution rule.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/SKR-SG/ASP/internal/entity"
)

// vatRate is the fixed 20% tax component removed when quoting VAT-exclusive.
var vatRate = decimal.NewFromFloat(1.2)

// ListingPrice computes the price to publish: bid minus the rule's margin.
// AUCTION orders use the auction margin, ASSIGNED/FREE the regular one. Nil
// means "request price interactively": no rule, no applicable margin, or no
// usable bid.
func ListingPrice(bid float64, rule *entity.DistributionRule, orderType string) *float64 {
	if rule == nil || bid == 0 {
		return nil
	}

	margin := rule.MarginPercent
	if orderType == entity.OrderTypeAuction {
		margin = rule.AuctionMarginPercent
	}
	if margin == nil {
		return nil
	}

	price, _ := decimal.NewFromFloat(bid).
		Mul(decimal.NewFromInt(100).Sub(decimal.NewFromFloat(*margin))).
		Div(decimal.NewFromInt(100)).
		Float64()
	return &price
}

// RateWithoutVAT strips the 20% VAT component and rounds down to the nearest
// 100 currency units. Only meaningful when a concrete price is being sent.
func RateWithoutVAT(price float64) int64 {
	hundreds := decimal.NewFromFloat(price).
		Div(vatRate).
		Div(decimal.NewFromInt(100)).
		Floor()
	return hundreds.Mul(decimal.NewFromInt(100)).IntPart()
}
