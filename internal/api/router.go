package api

import (
	"os"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and the v1 routes.
func NewRouter(h *Handler) *gin.Engine {
	if os.Getenv("DEALWATCH_ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(LoggingMiddleware())

	router.GET("/v1/health", h.GetHealth)
	router.GET("/v1/summary", h.GetSummary)
	router.POST("/v1/refresh", h.RefreshDeals)

	deals := router.Group("/v1/deals")
	{
		deals.GET("", h.ListDeals)
		deals.POST("", h.AddDeal)
		deals.GET("/stale", h.ListStaleDeals)
		deals.GET("/:id", h.GetDeal)
		deals.DELETE("/:id", h.DeleteDeal)
	}

	return router
}
