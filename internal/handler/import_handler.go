package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// ImportHandler handles HTTP requests for timeline imports
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

type importRequest struct {
	FilePath string `json:"file_path"`
}

// ImportTimeline handles POST /api/v1/import. The file must be readable
// from the server's filesystem.
func (h *ImportHandler) ImportTimeline(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.FilePath == "" {
		response.BadRequest(c, "Missing file_path")
		return
	}

	report, err := h.importService.ImportFile(c.Request.Context(), req.FilePath)
	if err != nil {
		response.InternalError(c, "Import failed", err)
		return
	}

	response.Success(c, report)
}
