package order

import (
	"github.com/gin-gonic/gin"

	"github.com/SKR-SG/ASP/internal/server/ginx"
	"github.com/SKR-SG/ASP/pkg/errorutil"
)

// List returns persisted orders for one platform.
// GET /api/v1/orders?platform=ati
func (h *Handler) List(c *gin.Context) {
	platform := c.Query("platform")
	if platform == "" {
		ginx.BadRequest(c, "platform required")
		return
	}

	orders, err := h.store.All(c.Request.Context(), platform)
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[OrderHandler] List failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, orders)
}

// Get returns one order by external number.
// GET /api/v1/orders/:external_no
func (h *Handler) Get(c *gin.Context) {
	externalNo := c.Param("external_no")
	if externalNo == "" {
		ginx.BadRequest(c, "external_no required")
		return
	}

	order, err := h.store.GetByExternalNo(c.Request.Context(), externalNo)
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[OrderHandler] Get failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}
	if order == nil {
		ginx.NotFound(c, "order not found")
		return
	}

	ginx.Success(c, order)
}

// Publish publishes one order to the marketplace right away, regardless of
// the rule's auto-publish flag.
// POST /api/v1/orders/:external_no/publish
func (h *Handler) Publish(c *gin.Context) {
	externalNo := c.Param("external_no")
	platform := c.DefaultQuery("platform", "ati")

	order, err := h.store.GetByExternalNo(c.Request.Context(), externalNo)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if order == nil {
		ginx.NotFound(c, "order not found")
		return
	}
	if order.IsListed() {
		ginx.Conflict(c, "order already listed")
		return
	}

	if err := h.actions.PublishOrder(c.Request.Context(), platform, externalNo); err != nil {
		h.respondActionError(c, externalNo, err)
		return
	}

	ginx.Success(c, gin.H{"external_no": externalNo, "status": "published"})
}

// Update pushes the current order state to the marketplace listing.
// POST /api/v1/orders/:external_no/update
func (h *Handler) Update(c *gin.Context) {
	externalNo := c.Param("external_no")

	if err := h.actions.UpdateListing(c.Request.Context(), externalNo); err != nil {
		h.respondActionError(c, externalNo, err)
		return
	}

	ginx.Success(c, gin.H{"external_no": externalNo, "status": "updated"})
}

// Withdraw removes the marketplace listing while keeping the order.
// POST /api/v1/orders/:external_no/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	externalNo := c.Param("external_no")

	if err := h.actions.WithdrawListing(c.Request.Context(), externalNo); err != nil {
		h.respondActionError(c, externalNo, err)
		return
	}

	ginx.Success(c, gin.H{"external_no": externalNo, "status": "withdrawn"})
}

func (h *Handler) respondActionError(c *gin.Context, externalNo string, err error) {
	h.logger.Errorf(c.Request.Context(), "[OrderHandler] Action failed for %s: %v", externalNo, err)
	if errorutil.IsRateLimited(err) {
		ginx.Error(c, 429, err.Error())
		return
	}
	ginx.InternalError(c, err.Error())
}
