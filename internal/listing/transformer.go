// Package listing assembles the marketplace payload for a persisted order.
package listing

import (
	"context"
	"fmt"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/normalize"
	"github.com/SKR-SG/ASP/internal/pricing"
	"github.com/SKR-SG/ASP/internal/rules"
)

// DefaultCargoName labels cargo when neither the order nor the rule names it.
const DefaultCargoName = "Груз"

// defaultPaymentDays applies when no rule covers the route.
const defaultPaymentDays = 30

// CityResolver resolves a free-text city name to a marketplace city id.
type CityResolver interface {
	CityID(ctx context.Context, cityName string) (int64, error)
}

// ContactResolver resolves a logistician display name to a contact id.
type ContactResolver interface {
	Resolve(ctx context.Context, name string) (int64, error)
}

// RuleSource provides the rule set for the fresh payment-days lookup.
type RuleSource interface {
	ListByPlatform(ctx context.Context, platform string) ([]entity.DistributionRule, error)
}

// Transformer is a pure assembly step over injected lookups: persisted
// order in, cargo application out.
type Transformer struct {
	cities   CityResolver
	contacts ContactResolver
	rules    RuleSource
	dicts    *ati.Dictionaries
	boardID  string
}

// NewTransformer creates a transformer. Dictionaries are fetched once per
// run by the caller and shared.
func NewTransformer(cities CityResolver, contacts ContactResolver, ruleSource RuleSource, dicts *ati.Dictionaries, boardID string) *Transformer {
	return &Transformer{
		cities:   cities,
		contacts: contacts,
		rules:    ruleSource,
		dicts:    dicts,
		boardID:  boardID,
	}
}

// Build assembles the create/update payload for one order. City and contact
// resolution failures abort only this order's processing.
func (t *Transformer) Build(ctx context.Context, order *entity.Order) (*ati.CargoApplication, error) {
	loadingCityID, err := t.cities.CityID(ctx, order.LoadingCity)
	if err != nil {
		return nil, fmt.Errorf("loading city %q: %w", order.LoadingCity, err)
	}
	unloadingCityID, err := t.cities.CityID(ctx, order.UnloadingCity)
	if err != nil {
		return nil, fmt.Errorf("unloading city %q: %w", order.UnloadingCity, err)
	}

	contactID, err := t.contacts.Resolve(ctx, order.LogisticianName)
	if err != nil {
		return nil, fmt.Errorf("logistician %q: %w", order.LogisticianName, err)
	}

	bodyLoading, bodyUnloading := normalize.SplitMethods(order.LoadingTypes, t.dicts.LoadingTypes, t.dicts.UnloadingTypes)

	// The rule is re-matched on every build so edits to payment terms or
	// the cargo-name override reach the marketplace without a reconcile.
	var rule *entity.DistributionRule
	if ruleSet, err := t.rules.ListByPlatform(ctx, order.Platform); err == nil {
		rule = rules.Match(ruleSet, order.LoadingCity, order.UnloadingCity)
	}

	cargoName := DefaultCargoName
	switch {
	case order.CargoName != nil && *order.CargoName != "":
		cargoName = *order.CargoName
	case rule != nil && rule.CargoName != nil && *rule.CargoName != "":
		cargoName = *rule.CargoName
	}

	note := ""
	if order.OrderType == entity.OrderTypeAuction {
		note = "Аукцион"
	}

	app := &ati.CargoApplication{
		Route: ati.Route{
			Loading: ati.Loading{
				CityID:  loadingCityID,
				Address: addressOrEmpty(order.LoadingAddress),
				Dates:   loadDates(order),
				Cargos: []ati.Cargo{
					{
						ID:     1,
						Name:   cargoName,
						Weight: ati.WeightSpec{Type: "tons", Quantity: normalize.WeightTons(order.WeightVolume)},
						Volume: ati.VolumeSpec{Quantity: normalize.VolumeCubic(order.VehicleType)},
					},
				},
			},
			Unloading: ati.Unloading{
				CityID:  unloadingCityID,
				Address: addressOrEmpty(order.UnloadingAddress),
				Dates:   unloadDates(order),
			},
		},
		Truck: ati.Truck{
			LoadType:      "ftl",
			BodyTypes:     []int{normalize.BodyTypeID(order.VehicleType, t.dicts.CarTypes)},
			BodyLoading:   ati.MethodSet{Types: bodyLoading, IsAllRequired: true},
			BodyUnloading: ati.MethodSet{Types: bodyUnloading, IsAllRequired: true},
		},
		Payment:  payment(order, rule),
		Boards:   []ati.Board{{ID: t.boardID, PublicationMode: "now"}},
		Note:     note,
		Contacts: []int64{contactID},
	}

	return app, nil
}

// payment builds the fixed-rate or rate-request offer.
func payment(order *entity.Order, rule *entity.DistributionRule) ati.Payment {
	paymentDays := defaultPaymentDays
	if rule != nil && rule.PaymentDays > 0 {
		paymentDays = rule.PaymentDays
	}

	mode := ati.PaymentMode{
		Type:             ati.PaymentModeDelayed,
		PaymentDelayDays: paymentDays,
	}

	if order.AtiPrice != nil {
		return ati.Payment{
			Type:              ati.PaymentWithoutBargaining,
			HideCounterOffers: true,
			DirectOffer:       true,
			PaymentMode:       mode,
			CurrencyType:      1,
			RateWithVAT:       *order.AtiPrice,
			RateWithoutVAT:    pricing.RateWithoutVAT(*order.AtiPrice),
		}
	}

	return ati.Payment{
		Type:                    ati.PaymentRateRequest,
		HideCounterOffers:       true,
		DirectOffer:             true,
		PaymentMode:             mode,
		CurrencyType:            1,
		RateWithVATAvailable:    true,
		RateWithoutVATAvailable: true,
	}
}

// loadDates is always a bounded single-day window at the load time.
func loadDates(order *entity.Order) *ati.Dates {
	day := order.LoadDate.Format("2006-01-02")
	clock := order.LoadDate.Format("15:04")
	return &ati.Dates{
		Type: ati.DatesTypeFromDate,
		Time: ati.TimeWindow{
			Type:   ati.TimeWindowBounded,
			Start:  clock,
			End:    clock,
			Offset: ati.DefaultTimeOffset,
		},
		FirstDate: day,
		LastDate:  day,
	}
}

// unloadDates is nil when the order has no unload date; the block must be
// omitted entirely, the API rejects empty date structures.
func unloadDates(order *entity.Order) *ati.Dates {
	if order.UnloadDate == nil {
		return nil
	}
	day := order.UnloadDate.Format("2006-01-02")
	clock := order.UnloadDate.Format("15:04")
	return &ati.Dates{
		Time: ati.TimeWindow{
			Type:   ati.TimeWindowBounded,
			Start:  clock,
			End:    clock,
			Offset: ati.DefaultTimeOffset,
		},
		FirstDate: day,
		LastDate:  day,
	}
}

// addressOrEmpty passes the persisted normalized street through. Orders
// whose address could not be normalized carry nil and list without one.
func addressOrEmpty(addr *string) string {
	if addr == nil {
		return ""
	}
	return *addr
}
