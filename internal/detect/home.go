package detect

import (
	"context"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// HomeDetector detects trips as away-from-home excursions. A trip opens on
// the first segment after an at-home visit, collects every segment while the
// user stays away, and closes on the next at-home visit. A span with no away
// visit never left home and is discarded (activities bracketed by two at-home
// visits are commutes, not trips), as is a span still open when the stream
// ends.
type HomeDetector struct{}

// NewHomeDetector creates a new home-based detector
func NewHomeDetector() Detector {
	return &HomeDetector{}
}

func (d *HomeDetector) Name() string { return models.AlgorithmHome }

func (d *HomeDetector) Detect(ctx context.Context, input DetectionInput) ([]models.Trip, *DetectionStats, error) {
	if input.Profile == nil {
		return nil, nil, ErrProfileRequired
	}

	stats := &DetectionStats{}
	segments := validSegments(input.Segments, stats)
	params := normalizeParams(input.Params)
	cls := newClassifier(input.Profile, params.HomeRadiusMeters)

	var trips []models.Trip
	var open []models.Segment

	for i := range segments {
		seg := &segments[i]
		if cls.isHomeVisit(seg) {
			if cls.hasAwayVisit(open) {
				if trip := cls.tripFromConstituents(models.AlgorithmHome, open); trip != nil {
					trip.OriginPlaceID = input.Profile.HomePlaceID
					trips = append(trips, *trip)
				}
			}
			open = nil
			continue
		}
		open = append(open, *seg)
	}

	// An excursion that never returned home is left unclosed and excluded.
	return trips, stats, nil
}

// Register the detector
func init() {
	RegisterDetector(models.AlgorithmHome, NewHomeDetector)
}
