package detect

import (
	"context"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/spatial"
)

// DistanceDetector clusters away-from-home visits by proximity. Two
// consecutive away visits join the same cluster when the great-circle
// distance between them stays below the cluster distance threshold and the
// gap between them below the time gap ceiling. Clusters grow greedily in
// chronological order; a visit failing either threshold closes the current
// cluster and seeds the next one. Every closed cluster becomes one trip,
// carrying along all segments lying fully inside its window. Visits without
// a location cannot take part in distance comparisons; they ride along as
// constituents when the window covers them.
type DistanceDetector struct{}

// NewDistanceDetector creates a new distance-clustering detector
func NewDistanceDetector() Detector {
	return &DistanceDetector{}
}

func (d *DistanceDetector) Name() string { return models.AlgorithmDistance }

func (d *DistanceDetector) Detect(ctx context.Context, input DetectionInput) ([]models.Trip, *DetectionStats, error) {
	if input.Profile == nil {
		return nil, nil, ErrProfileRequired
	}

	stats := &DetectionStats{}
	segments := validSegments(input.Segments, stats)
	params := normalizeParams(input.Params)
	cls := newClassifier(input.Profile, params.HomeRadiusMeters)

	var trips []models.Trip
	var cluster []*models.Segment

	flush := func() {
		if len(cluster) == 0 {
			return
		}
		start := cluster[0].StartTime
		end := cluster[0].EndTime
		for _, seg := range cluster[1:] {
			if seg.StartTime < start {
				start = seg.StartTime
			}
			if seg.EndTime > end {
				end = seg.EndTime
			}
		}
		if trip := cls.tripFromConstituents(models.AlgorithmDistance, collectWindow(segments, start, end)); trip != nil {
			trips = append(trips, *trip)
		}
		cluster = nil
	}

	for i := range segments {
		seg := &segments[i]
		if seg.Kind != models.KindVisit || seg.Visit == nil {
			continue
		}
		if !cls.away(seg.Visit) || seg.Visit.Location == nil {
			continue
		}

		if len(cluster) > 0 {
			prev := cluster[len(cluster)-1]
			gap := seg.StartTime - prev.EndTime
			dist := spatial.DistanceBetween(prev.Visit.Location, seg.Visit.Location)
			if dist >= params.ClusterDistanceMeters || gap >= params.ClusterTimeGapSeconds {
				flush()
			}
		}
		cluster = append(cluster, seg)
	}
	flush()

	return trips, stats, nil
}

// Register the detector
func init() {
	RegisterDetector(models.AlgorithmDistance, NewDistanceDetector)
}
