// Package order exposes persisted orders and manual listing actions.
package order

import (
	"context"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Store is the order read surface the handler needs.
type Store interface {
	GetByExternalNo(ctx context.Context, externalNo string) (*entity.Order, error)
	All(ctx context.Context, platform string) ([]entity.Order, error)
}

// ListingActions are the manual marketplace actions.
type ListingActions interface {
	PublishOrder(ctx context.Context, platform, externalNo string) error
	UpdateListing(ctx context.Context, externalNo string) error
	WithdrawListing(ctx context.Context, externalNo string) error
}

// Handler serves the order routes.
type Handler struct {
	store   Store
	actions ListingActions
	logger  logger.Logger
}

// NewHandler creates the order handler.
func NewHandler(store Store, actions ListingActions, log logger.Logger) *Handler {
	return &Handler{
		store:   store,
		actions: actions,
		logger:  log,
	}
}
