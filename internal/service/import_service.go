package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/importer"
	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// ImportService loads timeline export files into the segment store.
type ImportService struct {
	segmentRepo *repository.SegmentRepository
	profileRepo *repository.ProfileRepository
}

// NewImportService creates a new import service
func NewImportService(segmentRepo *repository.SegmentRepository, profileRepo *repository.ProfileRepository) *ImportService {
	return &ImportService{
		segmentRepo: segmentRepo,
		profileRepo: profileRepo,
	}
}

// ImportFile parses a timeline export and stores its segments, location
// profile and travel mode affinities. Unparseable segments are skipped and
// counted, never fatal.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*models.ImportReport, error) {
	started := time.Now()

	parsed, err := importer.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timeline file: %w", err)
	}
	for _, warning := range parsed.Warnings {
		zap.S().Warnf("[Import] %s", warning)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.segmentRepo.BatchInsert(parsed.Segments); err != nil {
		return nil, fmt.Errorf("failed to store segments: %w", err)
	}

	report := &models.ImportReport{
		RunID:   uuid.NewString(),
		Skipped: parsed.Skipped,
	}
	for i := range parsed.Segments {
		switch parsed.Segments[i].Kind {
		case models.KindVisit:
			report.Visits++
		case models.KindActivity:
			report.Activities++
		case models.KindPath:
			report.Paths++
		case models.KindMemory:
			report.Memories++
		}
	}

	if parsed.Profile != nil {
		if err := s.profileRepo.Upsert(parsed.Profile); err != nil {
			return nil, fmt.Errorf("failed to store profile: %w", err)
		}
		report.ProfileImported = true
	}
	if len(parsed.Affinities) > 0 {
		if err := s.profileRepo.ReplaceAffinities(parsed.Affinities); err != nil {
			return nil, fmt.Errorf("failed to store travel mode affinities: %w", err)
		}
		report.Affinities = len(parsed.Affinities)
	}

	report.DurationMs = time.Since(started).Milliseconds()
	zap.S().Infof("[Import] run %s: %d visits, %d activities, %d paths, %d memories, %d skipped in %dms",
		report.RunID, report.Visits, report.Activities, report.Paths, report.Memories, report.Skipped, report.DurationMs)
	return report, nil
}
