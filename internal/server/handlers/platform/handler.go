// Package platform serves the platform CRUD.
package platform

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/server/ginx"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Store is the platform persistence surface.
type Store interface {
	List(ctx context.Context) ([]entity.Platform, error)
	GetByID(ctx context.Context, id int64) (*entity.Platform, error)
	Create(ctx context.Context, platform *entity.Platform) error
	Save(ctx context.Context, platform *entity.Platform) error
	Delete(ctx context.Context, id int64) error
}

// Handler serves the platform routes.
type Handler struct {
	store  Store
	logger logger.Logger
}

// NewHandler creates the platform handler.
func NewHandler(store Store, log logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

// Request is the create/update payload. AuthData is stored opaque; its
// shape depends on the source feed.
type Request struct {
	Name     string         `json:"name" binding:"required"`
	Enabled  bool           `json:"enabled"`
	AuthData datatypes.JSON `json:"auth_data"`
}

// List returns all platforms.
// GET /api/v1/platforms
func (h *Handler) List(c *gin.Context) {
	platforms, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[PlatformHandler] List failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, platforms)
}

// Create adds a platform.
// POST /api/v1/platforms
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	platform := entity.Platform{
		Name:     req.Name,
		Enabled:  req.Enabled,
		AuthData: req.AuthData,
	}
	if err := h.store.Create(c.Request.Context(), &platform); err != nil {
		h.logger.Errorf(c.Request.Context(), "[PlatformHandler] Create failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, platform)
}

// Update rewrites a platform, including the enabled gate.
// PUT /api/v1/platforms/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.platformID(c)
	if !ok {
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	platform, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if platform == nil {
		ginx.NotFound(c, "platform not found")
		return
	}

	platform.Name = req.Name
	platform.Enabled = req.Enabled
	if req.AuthData != nil {
		platform.AuthData = req.AuthData
	}

	if err := h.store.Save(c.Request.Context(), platform); err != nil {
		h.logger.Errorf(c.Request.Context(), "[PlatformHandler] Update failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, platform)
}

// Delete removes a platform.
// DELETE /api/v1/platforms/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.platformID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.logger.Errorf(c.Request.Context(), "[PlatformHandler] Delete failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{"id": id, "status": "deleted"})
}

func (h *Handler) platformID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ginx.BadRequest(c, "invalid platform id")
		return 0, false
	}
	return id, true
}
