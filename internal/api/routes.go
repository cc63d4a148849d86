package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers the API surface on the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	router.Use(requestMetrics(handler))

	api := router.Group("/api")
	{
		api.POST("/transactions", handler.AddTransactions)
		api.POST("/market-data", handler.AddMarketSnapshots)
		api.POST("/neighborhoods", handler.AddNeighborhoods)

		api.POST("/valuations", handler.PredictValue)
		api.POST("/rental-yield", handler.GetRentalYield)
		api.POST("/roi", handler.ProjectROI)

		api.GET("/areas/:area/trend", handler.GetTrend)
		api.GET("/areas/:area/heat-index", handler.GetHeatIndex)
		api.GET("/areas/:area/velocity", handler.GetVelocity)
		api.GET("/areas/:area/forecast", handler.GetForecast)
		api.GET("/emerging-markets", handler.GetEmergingMarkets)
		api.GET("/opportunities", handler.GetOpportunities)

		api.POST("/insights/buyer", handler.GetBuyerInsights)
		api.POST("/insights/seller", handler.GetSellerInsights)
		api.POST("/insights/investor", handler.GetInvestorInsights)
		api.POST("/reports/comprehensive", handler.GetComprehensiveReport)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// requestMetrics records request counts and durations per endpoint.
func requestMetrics(handler *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		handler.metrics.RecordAPIRequest(endpoint, c.Request.Method, statusText(c.Writer.Status()))
		handler.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
