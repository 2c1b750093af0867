package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// DetectionHandler handles HTTP requests for trip detection runs
type DetectionHandler struct {
	detectionService *service.DetectionService
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(detectionService *service.DetectionService) *DetectionHandler {
	return &DetectionHandler{
		detectionService: detectionService,
	}
}

type detectRequest struct {
	Algorithm string `json:"algorithm"` // empty or "all" runs every detector
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
}

// RunDetection handles POST /api/v1/detect
func (h *DetectionHandler) RunDetection(c *gin.Context) {
	var req detectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	if req.Algorithm != "" && req.Algorithm != models.AlgorithmAll && !models.IsValidAlgorithm(req.Algorithm) {
		response.BadRequest(c, "Invalid algorithm parameter")
		return
	}
	if req.Start != 0 && req.End != 0 && req.Start > req.End {
		response.BadRequest(c, "Start must not be after end")
		return
	}

	report, err := h.detectionService.RunDetection(c.Request.Context(), req.Algorithm, models.TimeRange{
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		response.InternalError(c, "Detection run failed", err)
		return
	}

	response.Success(c, report)
}
