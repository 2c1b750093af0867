package detect

import (
	"context"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// OvernightDetector detects trips anchored on overnight stays: visits that
// cross a local calendar day away from home. Each qualifying visit is grown
// into the maximal run of contiguous segments with no intervening at-home
// visit, and each such run yields exactly one trip. Runs may extend to the
// stream edges; trips from this detector are multi-day by construction.
type OvernightDetector struct{}

// NewOvernightDetector creates a new overnight-stay detector
func NewOvernightDetector() Detector {
	return &OvernightDetector{}
}

func (d *OvernightDetector) Name() string { return models.AlgorithmOvernight }

func (d *OvernightDetector) Detect(ctx context.Context, input DetectionInput) ([]models.Trip, *DetectionStats, error) {
	if input.Profile == nil {
		return nil, nil, ErrProfileRequired
	}

	stats := &DetectionStats{}
	segments := validSegments(input.Segments, stats)
	params := normalizeParams(input.Params)
	cls := newClassifier(input.Profile, params.HomeRadiusMeters)

	var trips []models.Trip
	var run []models.Segment
	hasOvernight := false

	flush := func() {
		if hasOvernight {
			if trip := cls.tripFromConstituents(models.AlgorithmOvernight, run); trip != nil {
				trip.IsMultiDay = true
				trips = append(trips, *trip)
			}
		}
		run = nil
		hasOvernight = false
	}

	for i := range segments {
		seg := &segments[i]
		if cls.isHomeVisit(seg) {
			flush()
			continue
		}
		run = append(run, *seg)
		if seg.Kind == models.KindVisit && seg.Visit != nil && cls.away(seg.Visit) && seg.CrossesLocalDay() {
			hasOvernight = true
		}
	}
	flush()

	return trips, stats, nil
}

// Register the detector
func init() {
	RegisterDetector(models.AlgorithmOvernight, NewOvernightDetector)
}
