package service

import (
	"context"
	"fmt"
	"math"

	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/places"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// PlaceService handles read access to the place cache
type PlaceService struct {
	placeRepo *repository.PlaceRepository
	cache     *places.Cache
	collector *metrics.Collector
}

// NewPlaceService creates a new place service
func NewPlaceService(placeRepo *repository.PlaceRepository, cache *places.Cache, collector *metrics.Collector) *PlaceService {
	return &PlaceService{
		placeRepo: placeRepo,
		cache:     cache,
		collector: collector,
	}
}

// GetPlace resolves one place through the lookup cache, going to the
// provider when no fresh record is stored. Sentinel errors from the places
// package pass through unwrapped so callers can map them to status codes.
func (s *PlaceService) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place id is required")
	}

	place, err := s.cache.Resolve(ctx, placeID)
	s.collector.PlaceLookups.WithLabelValues(lookupOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return place, nil
}

// GetPlaces retrieves cached places with filtering and pagination
func (s *PlaceService) GetPlaces(filter models.PlaceFilter) (*models.PlacesResponse, error) {
	if filter.Status != "" && filter.Status != models.PlaceStatusOK && filter.Status != models.PlaceStatusFailed {
		return nil, fmt.Errorf("invalid place status: %s", filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	placesList, total, err := s.placeRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get places: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.PlacesResponse{
		Data:       placesList,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}
