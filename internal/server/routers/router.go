// Package routers wires the HTTP routes.
package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/SKR-SG/ASP/internal/server/handlers/logist"
	"github.com/SKR-SG/ASP/internal/server/handlers/order"
	"github.com/SKR-SG/ASP/internal/server/handlers/platform"
	"github.com/SKR-SG/ASP/internal/server/handlers/rule"
	"github.com/SKR-SG/ASP/internal/server/middlewares"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// SetupRoutes builds the gin engine with every route group.
func SetupRoutes(
	orderHandler *order.Handler,
	ruleHandler *rule.Handler,
	platformHandler *platform.Handler,
	logistHandler *logist.Handler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "asp-apiserver",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:external_no", orderHandler.Get)
			orders.POST("/:external_no/publish", orderHandler.Publish)
			orders.POST("/:external_no/update", orderHandler.Update)
			orders.POST("/:external_no/withdraw", orderHandler.Withdraw)
		}

		rules := v1.Group("/rules")
		{
			rules.GET("", ruleHandler.List)
			rules.GET("/:id", ruleHandler.Get)
			rules.POST("", ruleHandler.Create)
			rules.PUT("/:id", ruleHandler.Update)
			rules.DELETE("/:id", ruleHandler.Delete)
		}

		platforms := v1.Group("/platforms")
		{
			platforms.GET("", platformHandler.List)
			platforms.POST("", platformHandler.Create)
			platforms.PUT("/:id", platformHandler.Update)
			platforms.DELETE("/:id", platformHandler.Delete)
		}

		logists := v1.Group("/logists")
		{
			logists.GET("", logistHandler.List)
			logists.POST("/sync", logistHandler.Sync)
		}
	}

	return r
}
