package models

import "time"

// Segment represents one atomic timeline record imported from a location
// history export. Exactly one of Visit, Activity, Memory or PathPoints is
// populated, according to Kind.
type Segment struct {
	ID   int64  `json:"id" db:"id"`
	Kind string `json:"kind" db:"segment_type"` // visit, activity, path, memory

	// Temporal info
	StartTime             int64 `json:"start_time" db:"start_time"` // Unix timestamp
	EndTime               int64 `json:"end_time" db:"end_time"`     // Unix timestamp
	TimezoneOffsetMinutes int   `json:"timezone_offset_minutes" db:"timezone_offset_minutes"`

	// Raw source payload, kept verbatim for forward compatibility
	RawData string `json:"-" db:"raw_data"`

	// Subtype payloads
	Visit      *Visit      `json:"visit,omitempty"`
	Activity   *Activity   `json:"activity,omitempty"`
	Memory     *Memory     `json:"memory,omitempty"`
	PathPoints []PathPoint `json:"path_points,omitempty"`
}

// SegmentKind constants
const (
	KindVisit    = "visit"
	KindActivity = "activity"
	KindPath     = "path"
	KindMemory   = "memory"
)

// IsValidSegmentKind reports whether kind names a known segment kind.
func IsValidSegmentKind(kind string) bool {
	switch kind {
	case KindVisit, KindActivity, KindPath, KindMemory:
		return true
	}
	return false
}

// Visit is the stationary subtype of a segment.
type Visit struct {
	SegmentID      int64   `json:"segment_id" db:"segment_id"`
	PlaceID        string  `json:"place_id,omitempty" db:"place_id"`
	SemanticType   string  `json:"semantic_type" db:"semantic_type"` // HOME, WORK, INFERRED_HOME, ...
	Probability    float64 `json:"probability" db:"probability"`
	Location       *LatLng `json:"location,omitempty"`
	HierarchyLevel int     `json:"hierarchy_level" db:"hierarchy_level"`
}

// SemanticType constants (values as they appear in the export)
const (
	SemanticHome         = "HOME"
	SemanticWork         = "WORK"
	SemanticInferredHome = "INFERRED_HOME"
	SemanticInferredWork = "INFERRED_WORK"
	SemanticUnknown      = "UNKNOWN"
)

// Activity is the moving subtype of a segment.
type Activity struct {
	SegmentID      int64   `json:"segment_id" db:"segment_id"`
	StartLocation  *LatLng `json:"start_location,omitempty"`
	EndLocation    *LatLng `json:"end_location,omitempty"`
	DistanceMeters float64 `json:"distance_meters" db:"distance_meters"`
	ActivityType   string  `json:"activity_type" db:"activity_type"` // WALKING, IN_PASSENGER_VEHICLE, FLYING, ...
	Probability    float64 `json:"probability" db:"probability"`
}

// Memory is a provider-identified trip subtype of a segment. The export
// already carries its destination place ids.
type Memory struct {
	SegmentID            int64    `json:"segment_id" db:"segment_id"`
	DistanceFromOriginKm float64  `json:"distance_from_origin_km,omitempty" db:"distance_from_origin_km"`
	DestinationPlaceIDs  []string `json:"destination_place_ids"`
}

// PathPoint is a raw position sample inside a path segment.
type PathPoint struct {
	ID         int64  `json:"id" db:"id"`
	SegmentID  int64  `json:"segment_id" db:"segment_id"`
	Location   LatLng `json:"location"`
	RecordedAt int64  `json:"recorded_at" db:"recorded_at"` // Unix timestamp
}

// LatLng is a WGS84 coordinate pair. A nil *LatLng means the source record
// carried no usable location.
type LatLng struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// DurationSeconds returns the segment duration in seconds.
func (s *Segment) DurationSeconds() int64 {
	return s.EndTime - s.StartTime
}

// LocalStart returns the start time in the segment's own timezone.
func (s *Segment) LocalStart() time.Time {
	return time.Unix(s.StartTime, 0).In(s.localZone())
}

// LocalEnd returns the end time in the segment's own timezone.
func (s *Segment) LocalEnd() time.Time {
	return time.Unix(s.EndTime, 0).In(s.localZone())
}

func (s *Segment) localZone() *time.Location {
	return time.FixedZone("", s.TimezoneOffsetMinutes*60)
}

// CrossesLocalDay reports whether the segment starts and ends on different
// calendar days in its own timezone.
func (s *Segment) CrossesLocalDay() bool {
	start := s.LocalStart()
	end := s.LocalEnd()
	return start.Year() != end.Year() || start.YearDay() != end.YearDay()
}

// Overlaps reports whether the segment overlaps the [from, to) window.
func (s *Segment) Overlaps(from, to int64) bool {
	return s.StartTime < to && s.EndTime > from
}

// SegmentsResponse represents a paginated response of segments
type SegmentsResponse struct {
	Data       []Segment `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
