package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/internal/service"
	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// ProfileHandler handles HTTP requests for the imported user profile
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile()
	if err != nil {
		response.NotFound(c, "Profile not found")
		return
	}

	response.Success(c, profile)
}
