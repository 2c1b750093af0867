package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for trip statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// bindStatsFilter parses query parameters common to all stats endpoints.
// It writes the error response itself and reports whether binding succeeded.
func bindStatsFilter(c *gin.Context, filter *models.StatsFilter) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		response.BadRequest(c, "Invalid algorithm parameter")
		return false
	}
	return true
}

// GetOverview handles GET /api/v1/stats/overview
func (h *StatsHandler) GetOverview(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	stats, err := h.statsService.GetOverview(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute overview statistics", err)
		return
	}

	response.Success(c, stats)
}

// GetYearlyStats handles GET /api/v1/stats/yearly
func (h *StatsHandler) GetYearlyStats(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	stats, err := h.statsService.GetYearlyStats(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute yearly statistics", err)
		return
	}

	response.Success(c, stats)
}

// GetMonthlyStats handles GET /api/v1/stats/monthly
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}
	if filter.Year < 1 {
		response.BadRequest(c, "Missing or invalid year parameter")
		return
	}

	stats, err := h.statsService.GetMonthlyStats(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute monthly statistics", err)
		return
	}

	response.Success(c, stats)
}

// GetFrequentRoutes handles GET /api/v1/stats/routes
func (h *StatsHandler) GetFrequentRoutes(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	routes, err := h.statsService.GetFrequentRoutes(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute frequent routes", err)
		return
	}

	response.Success(c, routes)
}

// GetPeakTimes handles GET /api/v1/stats/peak-times
func (h *StatsHandler) GetPeakTimes(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	peaks, err := h.statsService.GetPeakTimes(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute peak times", err)
		return
	}

	response.Success(c, peaks)
}

// GetTransportModes handles GET /api/v1/stats/transport-modes
func (h *StatsHandler) GetTransportModes(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	modes, err := h.statsService.GetTransportModes(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute transport mode statistics", err)
		return
	}

	response.Success(c, modes)
}

// GetTopDestinations handles GET /api/v1/stats/destinations
func (h *StatsHandler) GetTopDestinations(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	destinations, err := h.statsService.GetTopDestinations(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute top destinations", err)
		return
	}

	response.Success(c, destinations)
}

// GetSeasonalPatterns handles GET /api/v1/stats/seasonal
func (h *StatsHandler) GetSeasonalPatterns(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	seasons, err := h.statsService.GetSeasonalPatterns(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute seasonal patterns", err)
		return
	}

	response.Success(c, seasons)
}

// GetDistributions handles GET /api/v1/stats/distributions
func (h *StatsHandler) GetDistributions(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}

	distributions, err := h.statsService.GetDistributions(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute trip distributions", err)
		return
	}

	response.Success(c, distributions)
}

// GetLongestTrips handles GET /api/v1/stats/longest-trips
func (h *StatsHandler) GetLongestTrips(c *gin.Context) {
	var filter models.StatsFilter
	if !bindStatsFilter(c, &filter) {
		return
	}
	if filter.By != "" && filter.By != "distance" && filter.By != "duration" {
		response.BadRequest(c, "Invalid by parameter")
		return
	}

	trips, err := h.statsService.GetLongestTrips(filter)
	if err != nil {
		response.InternalError(c, "Failed to compute longest trips", err)
		return
	}

	response.Success(c, trips)
}
