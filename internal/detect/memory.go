package detect

import (
	"context"
	"fmt"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// MemoryDetector emits one trip per provider-identified memory segment.
// Memories already carry their own span and destination place ids, so this
// is a direct pass-through; only the total distance is derived here, by
// summing the distances of activity segments overlapping the memory window.
type MemoryDetector struct{}

// NewMemoryDetector creates a new memory detector
func NewMemoryDetector() Detector {
	return &MemoryDetector{}
}

func (d *MemoryDetector) Name() string { return models.AlgorithmMemory }

func (d *MemoryDetector) Detect(ctx context.Context, input DetectionInput) ([]models.Trip, *DetectionStats, error) {
	stats := &DetectionStats{}
	segments := validSegments(input.Segments, stats)

	var trips []models.Trip
	for i := range segments {
		seg := &segments[i]
		if seg.Kind != models.KindMemory || seg.Memory == nil {
			continue
		}
		if seg.EndTime <= seg.StartTime {
			stats.SegmentsSkipped++
			stats.Warnings = append(stats.Warnings,
				fmt.Sprintf("segment %d: %v: memory window has no duration", seg.ID, ErrMalformedSegment))
			continue
		}

		trip := models.Trip{
			DetectionAlgorithm:    models.AlgorithmMemory,
			StartTime:             seg.StartTime,
			EndTime:               seg.EndTime,
			TimezoneOffsetMinutes: seg.TimezoneOffsetMinutes,
			IsMultiDay:            crossesLocalDay(seg.StartTime, seg.EndTime, seg.TimezoneOffsetMinutes),
			TotalDistanceMeters:   overlappingActivityDistance(segments, seg.StartTime, seg.EndTime),
			SegmentIDs:            []int64{seg.ID},
		}
		for idx, placeID := range seg.Memory.DestinationPlaceIDs {
			trip.Destinations = append(trip.Destinations, models.TripDestination{
				PlaceID:    placeID,
				VisitOrder: idx,
			})
		}
		trips = append(trips, trip)
	}

	return trips, stats, nil
}

// Register the detector
func init() {
	RegisterDetector(models.AlgorithmMemory, NewMemoryDetector)
}
