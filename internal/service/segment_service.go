package service

import (
	"fmt"
	"math"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// SegmentService handles read access to imported timeline segments
type SegmentService struct {
	segmentRepo *repository.SegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(segmentRepo *repository.SegmentRepository) *SegmentService {
	return &SegmentService{
		segmentRepo: segmentRepo,
	}
}

// GetSegments retrieves segments with filtering and pagination
func (s *SegmentService) GetSegments(filter models.SegmentFilter) (*models.SegmentsResponse, error) {
	if filter.Kind != "" && !models.IsValidSegmentKind(filter.Kind) {
		return nil, fmt.Errorf("invalid segment kind: %s", filter.Kind)
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

	segments, total, err := s.segmentRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get segments: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.SegmentsResponse{
		Data:       segments,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetSegmentByID retrieves a single segment, path points included.
func (s *SegmentService) GetSegmentByID(id int64) (*models.Segment, error) {
	segment, err := s.segmentRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	if segment == nil {
		return nil, fmt.Errorf("segment not found")
	}
	return segment, nil
}
