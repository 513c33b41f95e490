package engine

import (
	"context"
	"fmt"
)

// PublishOrder publishes one order to the marketplace. It backs both the
// manual publish route and the delayed publish job, so it re-checks that
// the order still exists and is not already listed: a delayed job firing
// after the order left the feed is a silent no-op.
func (r *Reconciler) PublishOrder(ctx context.Context, platform, externalNo string) error {
	order, err := r.orders.GetByExternalNo(ctx, externalNo)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		r.logger.Infof(ctx, "[Engine] Publish skipped, order gone: %s", externalNo)
		return nil
	}
	if order.IsListed() {
		r.logger.Infof(ctx, "[Engine] Publish skipped, already listed: %s", externalNo)
		return nil
	}

	app, err := r.builder.Build(ctx, order)
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	ref, err := r.market.CreateCargo(ctx, app)
	if err != nil {
		return fmt.Errorf("create cargo: %w", err)
	}

	if err := r.orders.SetListing(ctx, externalNo, ref.CargoID, ref.CargoNumber); err != nil {
		return fmt.Errorf("record listing: %w", err)
	}
	r.logger.Infof(ctx, "[Engine] Order published: %s, cargo_id=%s", externalNo, ref.CargoID)

	order.CargoID = &ref.CargoID
	order.Published = &ref.CargoNumber
	r.notify(ctx, order, EventPublished)
	return nil
}

// UpdateListing pushes the current state of a listed order to the
// marketplace. Used by the manual update route.
func (r *Reconciler) UpdateListing(ctx context.Context, externalNo string) error {
	order, err := r.orders.GetByExternalNo(ctx, externalNo)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", externalNo)
	}
	if !order.IsListed() {
		return fmt.Errorf("order not listed: %s", externalNo)
	}

	app, err := r.builder.Build(ctx, order)
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}
	if err := r.market.UpdateCargo(ctx, *order.CargoID, app); err != nil {
		return fmt.Errorf("update cargo: %w", err)
	}

	r.logger.Infof(ctx, "[Engine] Listing updated: %s", externalNo)
	r.notify(ctx, order, EventUpdated)
	return nil
}

// WithdrawListing removes the marketplace listing of an order while
// keeping the order row. Used by the manual withdraw route.
func (r *Reconciler) WithdrawListing(ctx context.Context, externalNo string) error {
	order, err := r.orders.GetByExternalNo(ctx, externalNo)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", externalNo)
	}
	if !order.IsListed() {
		return fmt.Errorf("order not listed: %s", externalNo)
	}

	if err := r.market.WithdrawCargo(ctx, *order.CargoID); err != nil {
		return fmt.Errorf("withdraw cargo: %w", err)
	}
	if err := r.orders.ClearListing(ctx, externalNo); err != nil {
		return fmt.Errorf("clear listing: %w", err)
	}

	r.logger.Infof(ctx, "[Engine] Listing withdrawn: %s", externalNo)
	r.notify(ctx, order, EventWithdrawn)
	order.CargoID = nil
	order.Published = nil
	return nil
}
