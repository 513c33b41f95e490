// Package engine reconciles the source feed against persisted orders and
// drives the marketplace listing lifecycle.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/feed"
	"github.com/SKR-SG/ASP/internal/normalize"
	"github.com/SKR-SG/ASP/internal/pricing"
	"github.com/SKR-SG/ASP/internal/rules"
	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// OrderStore is the order persistence surface the engine needs.
type OrderStore interface {
	GetByExternalNo(ctx context.Context, externalNo string) (*entity.Order, error)
	All(ctx context.Context, platform string) ([]entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	Save(ctx context.Context, order *entity.Order) error
	DeleteByExternalNo(ctx context.Context, externalNo string) error
	SetListing(ctx context.Context, externalNo, cargoID, cargoNumber string) error
	ClearListing(ctx context.Context, externalNo string) error
}

// RuleSource provides the distribution rule set of one platform.
type RuleSource interface {
	ListByPlatform(ctx context.Context, platform string) ([]entity.DistributionRule, error)
}

// PlatformGate reports whether a platform is enabled for sync.
type PlatformGate interface {
	Enabled(ctx context.Context, name string) (bool, error)
}

// Feed pulls one full snapshot of the source feed.
type Feed interface {
	Fetch(ctx context.Context) (*feed.Snapshot, error)
}

// Marketplace is the listing side of the marketplace client.
type Marketplace interface {
	CreateCargo(ctx context.Context, app *ati.CargoApplication) (*ati.CargoRef, error)
	UpdateCargo(ctx context.Context, cargoID string, app *ati.CargoApplication) error
	WithdrawCargo(ctx context.Context, cargoID string) error
}

// PayloadBuilder assembles the marketplace payload for one order.
type PayloadBuilder interface {
	Build(ctx context.Context, order *entity.Order) (*ati.CargoApplication, error)
}

// Scheduler schedules the publication of one order.
type Scheduler interface {
	Schedule(ctx context.Context, platform, externalNo string, delayMinutes int) error
}

// Notifier publishes listing lifecycle events.
type Notifier interface {
	ListingChanged(ctx context.Context, event ListingEvent) error
}

// Reconciler runs the feed-to-marketplace sync for one platform at a time.
type Reconciler struct {
	orders    OrderStore
	rules     RuleSource
	platforms PlatformGate
	feed      Feed
	market    Marketplace
	builder   PayloadBuilder
	scheduler Scheduler
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
}

// NewReconciler wires the engine.
func NewReconciler(
	orders OrderStore,
	ruleSource RuleSource,
	platforms PlatformGate,
	feedSource Feed,
	market Marketplace,
	builder PayloadBuilder,
	scheduler Scheduler,
	notifier Notifier,
	log logger.Logger,
) *Reconciler {
	return &Reconciler{
		orders:    orders,
		rules:     ruleSource,
		platforms: platforms,
		feed:      feedSource,
		market:    market,
		builder:   builder,
		scheduler: scheduler,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
	}
}

// Run executes one full reconcile pass for the platform: pull the feed,
// upsert every qualified order, then delete orders that left the feed.
// A second identical run makes zero marketplace calls.
func (r *Reconciler) Run(ctx context.Context, platform string) error {
	enabled, err := r.platforms.Enabled(ctx, platform)
	if err != nil {
		return fmt.Errorf("platform gate: %w", err)
	}
	if !enabled {
		r.logger.Infof(ctx, "[Reconciler] Platform disabled, skipping: %s", platform)
		return nil
	}

	snapshot, err := r.feed.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("feed fetch: %w", err)
	}

	ruleSet, err := r.rules.ListByPlatform(ctx, platform)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	var processed, failed int
	for i := range snapshot.Candidates {
		cand := &snapshot.Candidates[i]
		if err := r.processOne(ctx, platform, cand, ruleSet); err != nil {
			if errorutil.IsRateLimited(err) {
				// Further marketplace calls in this pass would also be
				// throttled; the next scheduled run picks up the rest.
				r.logger.Warnf(ctx, "[Reconciler] Rate limited on %s, aborting pass", cand.ExternalNo)
				return err
			}
			failed++
			r.logger.Errorf(ctx, "[Reconciler] Order %s failed: %v", cand.ExternalNo, err)
			continue
		}
		processed++
	}

	if snapshot.Complete {
		if err := r.deleteVanished(ctx, platform, snapshot); err != nil {
			return err
		}
	} else {
		r.logger.Warnf(ctx, "[Reconciler] Snapshot incomplete, skipping deletion phase")
	}

	r.logger.Infof(ctx, "[Reconciler] Pass done: platform=%s, processed=%d, failed=%d", platform, processed, failed)
	return nil
}

// processOne creates or updates the persisted order for one candidate.
func (r *Reconciler) processOne(ctx context.Context, platform string, cand *feed.Candidate, ruleSet []entity.DistributionRule) error {
	existing, err := r.orders.GetByExternalNo(ctx, cand.ExternalNo)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	rule := rules.Match(ruleSet, cand.LoadingCity, cand.UnloadingCity)

	if existing == nil {
		return r.createOrder(ctx, platform, cand, rule)
	}
	return r.updateOrder(ctx, existing, cand, rule)
}

func (r *Reconciler) createOrder(ctx context.Context, platform string, cand *feed.Candidate, rule *entity.DistributionRule) error {
	order := orderFromCandidate(platform, cand)
	order.AtiPrice = pricing.ListingPrice(cand.BidPrice, rule, cand.OrderType)
	if rule != nil {
		order.LogisticianName = rule.Logistician
	}

	if err := r.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	r.logger.Infof(ctx, "[Reconciler] Order created: %s", cand.ExternalNo)

	if rule != nil && rule.AutoPublishFor(cand.OrderType) {
		if err := r.scheduler.Schedule(ctx, platform, cand.ExternalNo, rule.PublishDelay); err != nil {
			return fmt.Errorf("schedule publish: %w", err)
		}
	}
	return nil
}

// updateOrder applies feed changes to a persisted order. The listed copy
// on the marketplace is refreshed only when something actually changed and
// the rule still wants the order published; a manually set listing price
// survives everything except a source price change.
func (r *Reconciler) updateOrder(ctx context.Context, order *entity.Order, cand *feed.Candidate, rule *entity.DistributionRule) error {
	fieldsChanged := applyCandidate(order, cand)
	sourcePriceChanged := order.BidPrice != cand.BidPrice

	if sourcePriceChanged {
		order.BidPrice = cand.BidPrice
		order.AtiPrice = pricing.ListingPrice(cand.BidPrice, rule, order.OrderType)
	}

	if !fieldsChanged && !sourcePriceChanged {
		return nil
	}

	if err := r.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	r.logger.Infof(ctx, "[Reconciler] Order updated: %s, fields=%v, price=%v",
		order.ExternalNo, fieldsChanged, sourcePriceChanged)

	if order.IsListed() && rule != nil && rule.AutoPublishFor(order.OrderType) {
		app, err := r.builder.Build(ctx, order)
		if err != nil {
			return fmt.Errorf("build payload: %w", err)
		}
		if err := r.market.UpdateCargo(ctx, *order.CargoID, app); err != nil {
			return fmt.Errorf("update cargo: %w", err)
		}
		r.notify(ctx, order, EventUpdated)
	}
	return nil
}

// deleteVanished removes orders that disappeared from the feed, first
// withdrawing any live listing. Withdrawal is best effort: the order row
// goes away even when the marketplace call fails, so one pass never tries
// to withdraw the same listing twice.
func (r *Reconciler) deleteVanished(ctx context.Context, platform string, snapshot *feed.Snapshot) error {
	persisted, err := r.orders.All(ctx, platform)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	for i := range persisted {
		order := &persisted[i]
		if snapshot.Seen(order.ExternalNo) {
			continue
		}

		if order.IsListed() {
			if err := r.market.WithdrawCargo(ctx, *order.CargoID); err != nil {
				r.logger.Warnf(ctx, "[Reconciler] Withdraw failed for %s: %v", order.ExternalNo, err)
			} else {
				r.notify(ctx, order, EventWithdrawn)
			}
		}

		if err := r.orders.DeleteByExternalNo(ctx, order.ExternalNo); err != nil {
			r.logger.Errorf(ctx, "[Reconciler] Delete failed for %s: %v", order.ExternalNo, err)
			continue
		}
		r.logger.Infof(ctx, "[Reconciler] Order deleted: %s", order.ExternalNo)
	}
	return nil
}

func (r *Reconciler) notify(ctx context.Context, order *entity.Order, event string) {
	if r.notifier == nil {
		return
	}
	evt := ListingEvent{
		ExternalNo: order.ExternalNo,
		Event:      event,
		Timestamp:  r.now(),
	}
	if order.CargoID != nil {
		evt.CargoID = *order.CargoID
	}
	if order.Published != nil {
		evt.CargoNumber = *order.Published
	}
	if err := r.notifier.ListingChanged(ctx, evt); err != nil {
		r.logger.Warnf(ctx, "[Reconciler] Notify failed for %s: %v", order.ExternalNo, err)
	}
}

// orderFromCandidate builds a fresh order row from a qualified candidate.
func orderFromCandidate(platform string, cand *feed.Candidate) *entity.Order {
	return &entity.Order{
		ExternalNo:       cand.ExternalNo,
		Platform:         platform,
		LoadingCity:      cand.LoadingCity,
		UnloadingCity:    cand.UnloadingCity,
		LoadingAddress:   loadingStreet(cand.LoadingAddress),
		UnloadingAddress: unloadingStreet(cand.UnloadingAddress),
		LoadDate:         cand.LoadDate,
		UnloadDate:       cand.UnloadDate,
		WeightVolume:     weightVolume(cand.Weight, cand.Volume),
		VehicleType:      cand.VehicleType,
		LoadingTypes:     cand.LoadingTypes,
		Comment:          cand.Comment,
		OrderType:        cand.OrderType,
		BidPrice:         cand.BidPrice,
	}
}

// applyCandidate copies changed feed fields onto the order and reports
// whether anything changed. Price fields are handled separately.
func applyCandidate(order *entity.Order, cand *feed.Candidate) bool {
	changed := false

	setStr := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	setStr(&order.LoadingCity, cand.LoadingCity)
	setStr(&order.UnloadingCity, cand.UnloadingCity)
	setStr(&order.WeightVolume, weightVolume(cand.Weight, cand.Volume))
	setStr(&order.VehicleType, cand.VehicleType)
	setStr(&order.LoadingTypes, cand.LoadingTypes)
	setStr(&order.Comment, cand.Comment)

	if next := loadingStreet(cand.LoadingAddress); !ptrEqual(order.LoadingAddress, next) {
		order.LoadingAddress = next
		changed = true
	}
	if next := unloadingStreet(cand.UnloadingAddress); !ptrEqual(order.UnloadingAddress, next) {
		order.UnloadingAddress = next
		changed = true
	}

	if !order.LoadDate.Equal(cand.LoadDate) {
		order.LoadDate = cand.LoadDate
		changed = true
	}
	if !timePtrEqual(order.UnloadDate, cand.UnloadDate) {
		order.UnloadDate = cand.UnloadDate
		changed = true
	}

	return changed
}

func weightVolume(weight, volume float64) string {
	return fmt.Sprintf("%g т / %g м3", weight, volume)
}

// loadingStreet reduces the raw loading address to the street name, nil
// when nothing parseable was found. The loading side carries no house
// number on the listing.
func loadingStreet(raw string) *string {
	if raw == "" {
		return nil
	}
	street, ok := normalize.Street(raw)
	if !ok {
		return nil
	}
	return &street
}

// unloadingStreet reduces the raw unloading address to street plus house
// number, nil when nothing parseable was found.
func unloadingStreet(raw string) *string {
	if raw == "" {
		return nil
	}
	street, ok := normalize.StreetWithHouse(raw)
	if !ok {
		return nil
	}
	return &street
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
