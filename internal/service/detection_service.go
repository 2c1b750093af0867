package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/timeline-backend-go/internal/config"
	"github.com/jengzang/timeline-backend-go/internal/detect"
	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// DetectionService orchestrates trip detection runs. Each run loads the
// profile and the ordered segment stream once, hands them to every requested
// detector and replaces each algorithm's stored trips atomically.
type DetectionService struct {
	tripRepo    *repository.TripRepository
	segmentRepo *repository.SegmentRepository
	profileRepo *repository.ProfileRepository
	collector   *metrics.Collector
	params      models.DetectionParams
}

// NewDetectionService creates a detection service with thresholds from cfg.
func NewDetectionService(tripRepo *repository.TripRepository, segmentRepo *repository.SegmentRepository,
	profileRepo *repository.ProfileRepository, collector *metrics.Collector, cfg *config.Config) *DetectionService {
	return &DetectionService{
		tripRepo:    tripRepo,
		segmentRepo: segmentRepo,
		profileRepo: profileRepo,
		collector:   collector,
		params: models.DetectionParams{
			HomeRadiusMeters:      cfg.HomeRadiusMeters,
			ClusterDistanceMeters: cfg.ClusterDistanceMeters,
			ClusterTimeGapSeconds: int64(cfg.ClusterTimeGapHours * 3600),
		},
	}
}

type detectorResult struct {
	algorithm string
	trips     []models.Trip
	stats     *detect.DetectionStats
	err       error
}

// RunDetection runs the requested algorithm ("all" or empty runs every
// registered one) over the segments in tr. Detectors run in parallel on the
// same input; each algorithm's output replaces its prior trips for the range
// in one transaction. A detector or store failure is recorded in the report
// and leaves that algorithm's previous trips intact, other algorithms are
// unaffected.
func (s *DetectionService) RunDetection(ctx context.Context, algorithm string, tr models.TimeRange) (*models.DetectionReport, error) {
	started := time.Now()

	var algorithms []string
	switch {
	case algorithm == "" || algorithm == models.AlgorithmAll:
		algorithms = models.Algorithms
	case models.IsValidAlgorithm(algorithm):
		algorithms = []string{algorithm}
	default:
		return nil, fmt.Errorf("invalid detection algorithm: %s", algorithm)
	}
	if tr.Start != 0 && tr.End != 0 && tr.Start > tr.End {
		return nil, fmt.Errorf("start time must be before end time")
	}

	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	segments, err := s.segmentRepo.ListByTimeRange(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to get segments: %w", err)
	}

	input := detect.DetectionInput{
		Segments: segments,
		Profile:  profile,
		Range:    tr,
		Params:   s.params,
	}

	report := &models.DetectionReport{
		RunID: uuid.NewString(),
		Range: tr,
	}
	zap.S().Infof("[Detection] run %s: %d algorithms over %d segments", report.RunID, len(algorithms), len(segments))

	results := make(chan detectorResult, len(algorithms))
	var wg sync.WaitGroup
	for _, alg := range algorithms {
		wg.Add(1)
		go func(alg string) {
			defer wg.Done()
			detector := detect.GetDetector(alg)
			if detector == nil {
				results <- detectorResult{algorithm: alg, err: fmt.Errorf("no detector registered for %s", alg)}
				return
			}
			trips, stats, err := detector.Detect(ctx, input)
			results <- detectorResult{algorithm: alg, trips: trips, stats: stats, err: err}
		}(alg)
	}
	wg.Wait()
	close(results)

	byAlgorithm := make(map[string]detectorResult, len(algorithms))
	for res := range results {
		byAlgorithm[res.algorithm] = res
	}

	for _, alg := range algorithms {
		res := byAlgorithm[alg]
		result := models.AlgorithmResult{Algorithm: alg}

		if res.stats != nil {
			result.SegmentsSkipped = res.stats.SegmentsSkipped
			// Detectors scan the same stream, so the run-level skip count
			// is the maximum across detectors, not the sum.
			if res.stats.SegmentsSkipped > report.SegmentsSkipped {
				report.SegmentsSkipped = res.stats.SegmentsSkipped
			}
		}

		switch {
		case res.err != nil:
			result.Error = res.err.Error()
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", alg, res.err))
			zap.S().Warnf("[Detection] %s failed: %v", alg, res.err)
		default:
			if storeErr := s.tripRepo.ReplaceTrips(alg, tr, res.trips); storeErr != nil {
				result.Error = storeErr.Error()
				report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", alg, storeErr))
				zap.S().Errorf("[Detection] failed to store %s trips: %v", alg, storeErr)
			} else {
				result.TripsCreated = len(res.trips)
				report.TotalTrips += len(res.trips)
				s.collector.TripsDetected.WithLabelValues(alg).Add(float64(len(res.trips)))
			}
		}
		report.Results = append(report.Results, result)
	}
	s.collector.SegmentsSkipped.Add(float64(report.SegmentsSkipped))

	report.DurationMs = time.Since(started).Milliseconds()
	zap.S().Infof("[Detection] run %s finished: %d trips, %d segments skipped, %d failures in %dms",
		report.RunID, report.TotalTrips, report.SegmentsSkipped, len(report.Failures), report.DurationMs)
	return report, nil
}
