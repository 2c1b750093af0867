package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// TripHandler handles HTTP requests for detected trips
type TripHandler struct {
	tripService   *service.TripService
	exportService *service.ExportService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *service.TripService, exportService *service.ExportService) *TripHandler {
	return &TripHandler{
		tripService:   tripService,
		exportService: exportService,
	}
}

// GetTrips handles GET /api/v1/trips
func (h *TripHandler) GetTrips(c *gin.Context) {
	var filter models.TripFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		response.BadRequest(c, "Invalid algorithm parameter")
		return
	}

	result, err := h.tripService.GetTrips(filter)
	if err != nil {
		response.InternalError(c, "Failed to list trips", err)
		return
	}

	response.Success(c, result)
}

// GetTripByID handles GET /api/v1/trips/:id
func (h *TripHandler) GetTripByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid trip ID")
		return
	}

	trip, err := h.tripService.GetTripByID(id)
	if err != nil {
		response.NotFound(c, "Trip not found")
		return
	}

	response.Success(c, trip)
}

// ExportTrips handles GET /api/v1/trips/export. The format query parameter
// selects CSV (default) or JSON.
func (h *TripHandler) ExportTrips(c *gin.Context) {
	var filter models.TripFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		response.BadRequest(c, "Invalid algorithm parameter")
		return
	}

	var buf bytes.Buffer
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		if err := h.exportService.WriteTripsCSV(&buf, filter); err != nil {
			response.InternalError(c, "Failed to export trips", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="trips.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "json":
		if err := h.exportService.WriteTripsJSON(&buf, filter); err != nil {
			response.InternalError(c, "Failed to export trips", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="trips.json"`)
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	default:
		response.BadRequest(c, "Invalid format parameter")
	}
}
