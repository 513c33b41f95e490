// Package rule serves the distribution rule CRUD.
package rule

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/internal/server/ginx"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Store is the rule persistence surface.
type Store interface {
	List(ctx context.Context) ([]entity.DistributionRule, error)
	ListByPlatform(ctx context.Context, platform string) ([]entity.DistributionRule, error)
	GetByID(ctx context.Context, id int64) (*entity.DistributionRule, error)
	Create(ctx context.Context, rule *entity.DistributionRule) error
	Save(ctx context.Context, rule *entity.DistributionRule) error
	Delete(ctx context.Context, id int64) error
}

// Handler serves the rule routes.
type Handler struct {
	store  Store
	logger logger.Logger
}

// NewHandler creates the rule handler.
func NewHandler(store Store, log logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

// Request is the create/update payload. A null city means "any city" in
// that position.
type Request struct {
	Platform             string   `json:"platform" binding:"required"`
	LoadingCity          *string  `json:"loading_city"`
	UnloadingCity        *string  `json:"unloading_city"`
	Logistician          string   `json:"logistician" binding:"required"`
	MarginPercent        *float64 `json:"margin_percent"`
	AuctionMarginPercent *float64 `json:"auction_margin_percent"`
	CargoName            *string  `json:"cargo_name"`
	AutoPublish          bool     `json:"auto_publish"`
	AutoPublishAuction   bool     `json:"auto_publish_auction"`
	PublishDelay         int      `json:"publish_delay"`
	PaymentDays          int      `json:"payment_days"`
}

func (r *Request) apply(rule *entity.DistributionRule) {
	rule.Platform = r.Platform
	rule.LoadingCity = r.LoadingCity
	rule.UnloadingCity = r.UnloadingCity
	rule.Logistician = r.Logistician
	rule.MarginPercent = r.MarginPercent
	rule.AuctionMarginPercent = r.AuctionMarginPercent
	rule.CargoName = r.CargoName
	rule.AutoPublish = r.AutoPublish
	rule.AutoPublishAuction = r.AutoPublishAuction
	rule.PublishDelay = r.PublishDelay
	rule.PaymentDays = r.PaymentDays
	if rule.PaymentDays == 0 {
		rule.PaymentDays = 30
	}
}

// List returns all rules, optionally filtered by platform.
// GET /api/v1/rules?platform=ati
func (h *Handler) List(c *gin.Context) {
	var rules []entity.DistributionRule
	var err error

	if platform := c.Query("platform"); platform != "" {
		rules, err = h.store.ListByPlatform(c.Request.Context(), platform)
	} else {
		rules, err = h.store.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[RuleHandler] List failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, rules)
}

// Get returns one rule.
// GET /api/v1/rules/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	rule, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if rule == nil {
		ginx.NotFound(c, "rule not found")
		return
	}

	ginx.Success(c, rule)
}

// Create adds a rule.
// POST /api/v1/rules
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	var rule entity.DistributionRule
	req.apply(&rule)

	if err := h.store.Create(c.Request.Context(), &rule); err != nil {
		h.logger.Errorf(c.Request.Context(), "[RuleHandler] Create failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, rule)
}

// Update rewrites a rule.
// PUT /api/v1/rules/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	rule, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if rule == nil {
		ginx.NotFound(c, "rule not found")
		return
	}

	req.apply(rule)
	if err := h.store.Save(c.Request.Context(), rule); err != nil {
		h.logger.Errorf(c.Request.Context(), "[RuleHandler] Update failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, rule)
}

// Delete removes a rule.
// DELETE /api/v1/rules/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.logger.Errorf(c.Request.Context(), "[RuleHandler] Delete failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{"id": id, "status": "deleted"})
}

func (h *Handler) ruleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ginx.BadRequest(c, "invalid rule id")
		return 0, false
	}
	return id, true
}
