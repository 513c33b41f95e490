// Package logist serves the logistician directory.
package logist

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/server/ginx"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Store is the logist read surface.
type Store interface {
	List(ctx context.Context) ([]entity.Logist, error)
}

// Syncer refreshes the directory from the marketplace contact list.
type Syncer interface {
	SyncAll(ctx context.Context) (int, error)
}

// Handler serves the logist routes.
type Handler struct {
	store  Store
	syncer Syncer
	logger logger.Logger
}

// NewHandler creates the logist handler.
func NewHandler(store Store, syncer Syncer, log logger.Logger) *Handler {
	return &Handler{store: store, syncer: syncer, logger: log}
}

// List returns all known logisticians.
// GET /api/v1/logists
func (h *Handler) List(c *gin.Context) {
	logists, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[LogistHandler] List failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, logists)
}

// Sync pulls the marketplace contact list and upserts every entry.
// POST /api/v1/logists/sync
func (h *Handler) Sync(c *gin.Context) {
	count, err := h.syncer.SyncAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[LogistHandler] Sync failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{"synced": count})
}
