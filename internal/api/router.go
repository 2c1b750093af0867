package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/timeline-backend-go/internal/config"
	"github.com/jengzang/timeline-backend-go/internal/handler"
	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Import    *handler.ImportHandler
	Detection *handler.DetectionHandler
	Trips     *handler.TripHandler
	Segments  *handler.SegmentHandler
	Places    *handler.PlaceHandler
	Profile   *handler.ProfileHandler
	Stats     *handler.StatsHandler
}

// SetupRouter builds the gin engine with middleware and all API routes.
func SetupRouter(cfg *config.Config, collector *metrics.Collector, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics(collector))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Timeline Backend API is running",
		})
	})

	// Prometheus metrics, served from the collector's own registry
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))

	// API routes
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	{
		// Mutating operations require a bearer token.
		authorized := api.Group("")
		authorized.Use(middleware.Auth(cfg.JWTSecret))
		{
			authorized.POST("/import", h.Import.ImportTimeline)
			authorized.POST("/detect", h.Detection.RunDetection)
			authorized.POST("/places/enrich", h.Places.EnrichPlaces)
		}

		trips := api.Group("/trips")
		{
			trips.GET("", h.Trips.GetTrips)
			trips.GET("/export", h.Trips.ExportTrips)
			trips.GET("/:id", h.Trips.GetTripByID)
		}

		segments := api.Group("/segments")
		{
			segments.GET("", h.Segments.GetSegments)
			segments.GET("/:id", h.Segments.GetSegmentByID)
		}

		places := api.Group("/places")
		{
			places.GET("", h.Places.GetPlaces)
			places.GET("/export", h.Places.ExportPlaces)
			places.GET("/:id", h.Places.GetPlaceByID)
		}

		api.GET("/profile", h.Profile.GetProfile)

		stats := api.Group("/stats")
		{
			stats.GET("/overview", h.Stats.GetOverview)
			stats.GET("/yearly", h.Stats.GetYearlyStats)
			stats.GET("/monthly", h.Stats.GetMonthlyStats)
			stats.GET("/routes", h.Stats.GetFrequentRoutes)
			stats.GET("/peak-times", h.Stats.GetPeakTimes)
			stats.GET("/transport-modes", h.Stats.GetTransportModes)
			stats.GET("/destinations", h.Stats.GetTopDestinations)
			stats.GET("/longest-trips", h.Stats.GetLongestTrips)
			stats.GET("/seasonal", h.Stats.GetSeasonalPatterns)
			stats.GET("/distributions", h.Stats.GetDistributions)
		}
	}

	return r
}
