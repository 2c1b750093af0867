package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// SegmentHandler handles HTTP requests for imported timeline segments
type SegmentHandler struct {
	segmentService *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(segmentService *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
	}
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Kind != "" && !models.IsValidSegmentKind(filter.Kind) {
		response.BadRequest(c, "Invalid kind parameter")
		return
	}

	result, err := h.segmentService.GetSegments(filter)
	if err != nil {
		response.InternalError(c, "Failed to list segments", err)
		return
	}

	response.Success(c, result)
}

// GetSegmentByID handles GET /api/v1/segments/:id
func (h *SegmentHandler) GetSegmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	segment, err := h.segmentService.GetSegmentByID(id)
	if err != nil {
		response.NotFound(c, "Segment not found")
		return
	}

	response.Success(c, segment)
}
