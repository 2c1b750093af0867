package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/config"
	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/places"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// EnrichmentService fills the place cache for every place id the stored
// timeline references: visit place ids, memory destinations and the
// profile's home and work places.
type EnrichmentService struct {
	segmentRepo *repository.SegmentRepository
	profileRepo *repository.ProfileRepository
	placeRepo   *repository.PlaceRepository
	cache       *places.Cache
	collector   *metrics.Collector
	timeout     time.Duration
}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService(segmentRepo *repository.SegmentRepository, profileRepo *repository.ProfileRepository,
	placeRepo *repository.PlaceRepository, cache *places.Cache, collector *metrics.Collector, cfg *config.Config) *EnrichmentService {
	timeout := time.Duration(cfg.LookupTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &EnrichmentService{
		segmentRepo: segmentRepo,
		profileRepo: profileRepo,
		placeRepo:   placeRepo,
		cache:       cache,
		collector:   collector,
		timeout:     timeout,
	}
}

// EnrichPlaces resolves every referenced place id through the cache and
// reports per-id outcomes. force refetches even fresh and permanently
// failed records. The whole batch is bounded by the configured lookup
// timeout on top of the caller's context.
func (s *EnrichmentService) EnrichPlaces(ctx context.Context, force bool) (*models.EnrichmentReport, error) {
	started := time.Now()

	ids, err := s.collectPlaceIDs()
	if err != nil {
		return nil, err
	}

	report := &models.EnrichmentReport{
		RunID:     uuid.NewString(),
		Requested: len(ids),
		Failures:  make(map[string]string),
	}
	if len(ids) == 0 {
		report.Failures = nil
		report.DurationMs = time.Since(started).Milliseconds()
		return report, nil
	}

	previouslyFailed, err := s.failedBefore(ids)
	if err != nil {
		return nil, err
	}

	zap.S().Infof("[Enrichment] run %s: resolving %d place ids (force=%v)", report.RunID, len(ids), force)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, res := range s.cache.ResolveMany(ctx, ids, force) {
		s.collector.PlaceLookups.WithLabelValues(lookupOutcome(res.Err)).Inc()

		switch {
		case res.Err == nil && res.FromCache:
			report.Skipped++
			s.collector.CacheHits.Inc()
		case res.Err == nil:
			report.Resolved++
			s.collector.CacheMisses.Inc()
			if previouslyFailed[res.PlaceID] {
				report.Retried++
			}
		case errors.Is(res.Err, places.ErrPermanentlyFailed):
			// Ceiling reached in an earlier run; no fetch was attempted.
			report.Skipped++
			report.Failures[res.PlaceID] = res.Err.Error()
		default:
			report.Failed++
			report.Failures[res.PlaceID] = res.Err.Error()
			if previouslyFailed[res.PlaceID] {
				report.Retried++
			}
		}
	}
	if len(report.Failures) == 0 {
		report.Failures = nil
	}

	report.DurationMs = time.Since(started).Milliseconds()
	zap.S().Infof("[Enrichment] run %s finished: %d resolved, %d skipped, %d failed, %d retried in %dms",
		report.RunID, report.Resolved, report.Skipped, report.Failed, report.Retried, report.DurationMs)
	return report, nil
}

func (s *EnrichmentService) collectPlaceIDs() ([]string, error) {
	ids, err := s.segmentRepo.DistinctPlaceIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to collect place ids: %w", err)
	}

	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile != nil {
		// ResolveMany drops empty ids and duplicates.
		ids = append(ids, profile.HomePlaceID, profile.WorkPlaceID)
	}
	return ids, nil
}

// failedBefore returns the ids whose stored record was already marked failed
// when the run started. A later success or failure on one of these counts as
// a retry.
func (s *EnrichmentService) failedBefore(ids []string) (map[string]bool, error) {
	stored, err := s.placeRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read place cache: %w", err)
	}
	failed := make(map[string]bool)
	for id, place := range stored {
		if place.Status == models.PlaceStatusFailed {
			failed[id] = true
		}
	}
	return failed, nil
}

// lookupOutcome maps a cache resolution error to its metrics label.
func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, places.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, places.ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, places.ErrPermanentlyFailed):
		return metrics.OutcomePermanent
	case errors.Is(err, places.ErrLookupTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeTransient
	}
}
