package service

import (
	"fmt"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// ProfileService handles read access to the user location profile
type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// ProfileResponse bundles the stored profile with its travel mode affinities.
type ProfileResponse struct {
	Profile    *models.UserProfile         `json:"profile"`
	Affinities []models.TravelModeAffinity `json:"affinities"`
}

// GetProfile returns the imported profile and travel mode affinities.
func (s *ProfileService) GetProfile() (*ProfileResponse, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	affinities, err := s.profileRepo.ListAffinities()
	if err != nil {
		return nil, fmt.Errorf("failed to get travel mode affinities: %w", err)
	}

	return &ProfileResponse{
		Profile:    profile,
		Affinities: affinities,
	}, nil
}
