package detect

import (
	"context"
	"errors"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

var (
	// ErrProfileRequired is returned by detectors that classify segments
	// relative to the user's home when no profile is available.
	ErrProfileRequired = errors.New("user profile required for home-relative detection")

	// ErrMalformedSegment marks a segment violating the start<=end invariant.
	// Such segments are skipped and reported, never fatal to a run.
	ErrMalformedSegment = errors.New("malformed segment")
)

// DetectionInput carries the working set for one detection run. Segments must
// be ordered by start time, as produced by the segment store.
type DetectionInput struct {
	Segments []models.Segment
	Profile  *models.UserProfile
	Range    models.TimeRange
	Params   models.DetectionParams
}

// DetectionStats reports scan bookkeeping for a single detector run.
type DetectionStats struct {
	SegmentsScanned int      `json:"segments_scanned"`
	SegmentsSkipped int      `json:"segments_skipped"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Detector is the contract shared by all trip detection algorithms. Detect
// scans the time-ordered segment stream once and emits trips tagged with the
// algorithm's name. Outputs of different detectors may overlap in time; they
// are independent hypotheses and are never deduplicated against each other.
type Detector interface {
	Name() string
	Detect(ctx context.Context, input DetectionInput) ([]models.Trip, *DetectionStats, error)
}

// DetectorFactory is a function that creates a detector instance
type DetectorFactory func() Detector

// DetectorRegistry holds all registered detector factories
var DetectorRegistry = make(map[string]DetectorFactory)

// RegisterDetector registers a detector factory under its algorithm name
func RegisterDetector(algorithm string, factory DetectorFactory) {
	DetectorRegistry[algorithm] = factory
}

// GetDetector creates a detector instance for the given algorithm.
// Returns nil if no detector is registered under that name.
func GetDetector(algorithm string) Detector {
	factory, ok := DetectorRegistry[algorithm]
	if !ok {
		return nil
	}
	return factory()
}
