package service

import (
	"fmt"
	"math"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// TripService handles read access to detected trips
type TripService struct {
	tripRepo *repository.TripRepository
}

// NewTripService creates a new trip service
func NewTripService(tripRepo *repository.TripRepository) *TripService {
	return &TripService{
		tripRepo: tripRepo,
	}
}

// GetTrips retrieves trips with filtering and pagination
func (s *TripService) GetTrips(filter models.TripFilter) (*models.TripsResponse, error) {
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		return nil, fmt.Errorf("invalid detection algorithm: %s", filter.Algorithm)
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

	trips, total, err := s.tripRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.TripsResponse{
		Data:       trips,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetTripByID retrieves a single trip by ID
func (s *TripService) GetTripByID(id int64) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if trip == nil {
		return nil, fmt.Errorf("trip not found")
	}
	return trip, nil
}
