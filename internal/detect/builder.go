package detect

import (
	"fmt"
	"time"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/spatial"
)

// Default thresholds, applied when the caller leaves params unset.
const (
	DefaultHomeRadiusMeters      = 1000.0
	DefaultClusterDistanceMeters = 50000.0
	DefaultClusterTimeGapSeconds = int64(48 * 60 * 60)
)

func normalizeParams(p models.DetectionParams) models.DetectionParams {
	if p.HomeRadiusMeters <= 0 {
		p.HomeRadiusMeters = DefaultHomeRadiusMeters
	}
	if p.ClusterDistanceMeters <= 0 {
		p.ClusterDistanceMeters = DefaultClusterDistanceMeters
	}
	if p.ClusterTimeGapSeconds <= 0 {
		p.ClusterTimeGapSeconds = DefaultClusterTimeGapSeconds
	}
	return p
}

// validSegments filters out segments violating the start<=end invariant,
// counting and reporting each skip on stats. The input slice is not modified.
func validSegments(segments []models.Segment, stats *DetectionStats) []models.Segment {
	stats.SegmentsScanned = len(segments)

	valid := make([]models.Segment, 0, len(segments))
	for i := range segments {
		seg := &segments[i]
		if seg.EndTime < seg.StartTime {
			stats.SegmentsSkipped++
			stats.Warnings = append(stats.Warnings,
				fmt.Sprintf("segment %d: %v: end %d before start %d", seg.ID, ErrMalformedSegment, seg.EndTime, seg.StartTime))
			continue
		}
		valid = append(valid, *seg)
	}
	return valid
}

// classifier decides whether a visit counts as away from home. A visit is
// away when its location lies farther than the home radius from the profile's
// home location, or when its semantic label is neither HOME nor
// INFERRED_HOME. Visits without a location never count as away by distance.
type classifier struct {
	home   *models.LatLng
	radius float64
}

func newClassifier(profile *models.UserProfile, radiusMeters float64) classifier {
	c := classifier{radius: radiusMeters}
	if profile != nil {
		c.home = profile.HomeLocation
	}
	return c
}

func (c classifier) away(v *models.Visit) bool {
	if v == nil {
		return false
	}
	if c.home != nil && v.Location != nil && !spatial.WithinRadius(c.home, v.Location, c.radius) {
		return true
	}
	switch v.SemanticType {
	case models.SemanticHome, models.SemanticInferredHome:
		return false
	}
	return true
}

// hasAwayVisit reports whether any segment is a visit classified as away.
func (c classifier) hasAwayVisit(segments []models.Segment) bool {
	for i := range segments {
		seg := &segments[i]
		if seg.Kind == models.KindVisit && seg.Visit != nil && c.away(seg.Visit) {
			return true
		}
	}
	return false
}

// isHomeVisit reports whether the segment is a visit classified as at home.
// Only such visits terminate an away span; every other segment kind is
// transparent to home/away transitions.
func (c classifier) isHomeVisit(seg *models.Segment) bool {
	return seg.Kind == models.KindVisit && seg.Visit != nil && !c.away(seg.Visit)
}

// tripFromConstituents assembles a trip from the segments that make it up.
// The span is the constituents' minimal covering window, the distance the sum
// of constituent activity distances, the primary transport mode the one with
// the greatest cumulative distance, and the destinations the distinct away
// visit place ids in chronological order. Returns nil when the constituents
// are empty or the span has no positive duration.
func (c classifier) tripFromConstituents(algorithm string, constituents []models.Segment) *models.Trip {
	if len(constituents) == 0 {
		return nil
	}

	start := constituents[0].StartTime
	end := constituents[0].EndTime
	for i := range constituents[1:] {
		seg := &constituents[i+1]
		if seg.StartTime < start {
			start = seg.StartTime
		}
		if seg.EndTime > end {
			end = seg.EndTime
		}
	}
	if end <= start {
		return nil
	}

	tzOffset := constituents[0].TimezoneOffsetMinutes
	trip := &models.Trip{
		DetectionAlgorithm:    algorithm,
		StartTime:             start,
		EndTime:               end,
		TimezoneOffsetMinutes: tzOffset,
		IsMultiDay:            crossesLocalDay(start, end, tzOffset),
	}

	modeDistances := make(map[string]float64)
	var modes []string
	seen := make(map[string]bool)

	for i := range constituents {
		seg := &constituents[i]
		trip.SegmentIDs = append(trip.SegmentIDs, seg.ID)

		if a := seg.Activity; a != nil {
			trip.TotalDistanceMeters += a.DistanceMeters
			if a.ActivityType != "" {
				if _, ok := modeDistances[a.ActivityType]; !ok {
					modes = append(modes, a.ActivityType)
				}
				modeDistances[a.ActivityType] += a.DistanceMeters
			}
		}

		if v := seg.Visit; v != nil && v.PlaceID != "" && c.away(v) && !seen[v.PlaceID] {
			seen[v.PlaceID] = true
			trip.Destinations = append(trip.Destinations, models.TripDestination{
				PlaceID:    v.PlaceID,
				VisitOrder: len(trip.Destinations),
			})
		}
	}

	best := 0.0
	for _, mode := range modes {
		if modeDistances[mode] > best {
			best = modeDistances[mode]
			trip.PrimaryTransportMode = mode
		}
	}

	return trip
}

// overlappingActivityDistance sums the distances of activity segments
// overlapping the [from, to) window.
func overlappingActivityDistance(segments []models.Segment, from, to int64) float64 {
	total := 0.0
	for i := range segments {
		seg := &segments[i]
		if seg.Kind != models.KindActivity || seg.Activity == nil {
			continue
		}
		if seg.Overlaps(from, to) {
			total += seg.Activity.DistanceMeters
		}
	}
	return total
}

// collectWindow returns the segments lying fully inside [start, end].
func collectWindow(segments []models.Segment, start, end int64) []models.Segment {
	var inside []models.Segment
	for i := range segments {
		seg := &segments[i]
		if seg.StartTime >= start && seg.EndTime <= end {
			inside = append(inside, *seg)
		}
	}
	return inside
}

// crossesLocalDay reports whether start and end fall on different calendar
// days in the given fixed timezone offset.
func crossesLocalDay(start, end int64, offsetMinutes int) bool {
	zone := time.FixedZone("", offsetMinutes*60)
	s := time.Unix(start, 0).In(zone)
	e := time.Unix(end, 0).In(zone)
	return s.Year() != e.Year() || s.YearDay() != e.YearDay()
}
