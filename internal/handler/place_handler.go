package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/places"
	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// PlaceHandler handles HTTP requests for the place cache
type PlaceHandler struct {
	placeService      *service.PlaceService
	enrichmentService *service.EnrichmentService
	exportService     *service.ExportService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *service.PlaceService, enrichmentService *service.EnrichmentService, exportService *service.ExportService) *PlaceHandler {
	return &PlaceHandler{
		placeService:      placeService,
		enrichmentService: enrichmentService,
		exportService:     exportService,
	}
}

// GetPlaces handles GET /api/v1/places
func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	var filter models.PlaceFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Status != "" && filter.Status != models.PlaceStatusOK && filter.Status != models.PlaceStatusFailed {
		response.BadRequest(c, "Invalid status parameter")
		return
	}

	result, err := h.placeService.GetPlaces(filter)
	if err != nil {
		response.InternalError(c, "Failed to list places", err)
		return
	}

	response.Success(c, result)
}

// GetPlaceByID handles GET /api/v1/places/:id. Unknown places are looked up
// through the cache, so a cold ID may trigger a provider fetch.
func (h *PlaceHandler) GetPlaceByID(c *gin.Context) {
	placeID := c.Param("id")

	place, err := h.placeService.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		if errors.Is(err, places.ErrNotFound) || errors.Is(err, places.ErrPermanentlyFailed) {
			response.NotFound(c, "Place not found")
			return
		}
		response.InternalError(c, "Failed to resolve place", err)
		return
	}

	response.Success(c, place)
}

// ExportPlaces handles GET /api/v1/places/export. The format query parameter
// selects CSV (default) or JSON.
func (h *PlaceHandler) ExportPlaces(c *gin.Context) {
	var buf bytes.Buffer
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		if err := h.exportService.WritePlacesCSV(&buf); err != nil {
			response.InternalError(c, "Failed to export places", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="places.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "json":
		if err := h.exportService.WritePlacesJSON(&buf); err != nil {
			response.InternalError(c, "Failed to export places", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="places.json"`)
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	default:
		response.BadRequest(c, "Invalid format parameter")
	}
}

// EnrichPlaces handles POST /api/v1/places/enrich
func (h *PlaceHandler) EnrichPlaces(c *gin.Context) {
	var req struct {
		Force bool `json:"force"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	report, err := h.enrichmentService.EnrichPlaces(c.Request.Context(), req.Force)
	if err != nil {
		response.InternalError(c, "Enrichment run failed", err)
		return
	}

	response.Success(c, report)
}
