package models

import "time"

// Trip represents a detected travel episode derived from the segment stream.
// Trips from different algorithms may overlap in time; they are independent
// hypotheses and are never deduplicated across algorithms.
type Trip struct {
	ID int64 `json:"id" db:"id"`

	// Which detector produced this trip
	DetectionAlgorithm string `json:"detection_algorithm" db:"detection_algorithm"` // memory, home, overnight, distance

	// Temporal info
	StartTime             int64 `json:"start_time" db:"start_time"` // Unix timestamp
	EndTime               int64 `json:"end_time" db:"end_time"`     // Unix timestamp
	TimezoneOffsetMinutes int   `json:"timezone_offset_minutes" db:"timezone_offset_minutes"`
	IsMultiDay            bool  `json:"is_multi_day" db:"is_multi_day"`

	// Trip characteristics
	OriginPlaceID        string  `json:"origin_place_id,omitempty" db:"origin_place_id"`
	TotalDistanceMeters  float64 `json:"total_distance_meters" db:"total_distance_meters"`
	PrimaryTransportMode string  `json:"primary_transport_mode,omitempty" db:"primary_transport_mode"`

	// Ordered destination places and constituent segment references
	Destinations []TripDestination `json:"destinations,omitempty"`
	SegmentIDs   []int64           `json:"segment_ids,omitempty"`

	CreatedAt int64 `json:"created_at" db:"created_at"` // Unix timestamp
}

// DetectionAlgorithm constants
const (
	AlgorithmMemory    = "memory"
	AlgorithmHome      = "home"
	AlgorithmOvernight = "overnight"
	AlgorithmDistance  = "distance"
	AlgorithmAll       = "all" // run-request pseudo value, never stored
)

// Algorithms lists the storable detection algorithms in a stable order.
var Algorithms = []string{AlgorithmMemory, AlgorithmHome, AlgorithmOvernight, AlgorithmDistance}

// IsValidAlgorithm reports whether name is a storable algorithm tag.
func IsValidAlgorithm(name string) bool {
	for _, a := range Algorithms {
		if a == name {
			return true
		}
	}
	return false
}

// TripDestination is one stop of a trip, in visit order.
type TripDestination struct {
	TripID     int64  `json:"trip_id" db:"trip_id"`
	PlaceID    string `json:"place_id" db:"place_id"`
	VisitOrder int    `json:"visit_order" db:"visit_order"`
}

// DurationSeconds returns the trip duration in seconds.
func (t *Trip) DurationSeconds() int64 {
	return t.EndTime - t.StartTime
}

// LocalStart returns the start time in the trip's timezone.
func (t *Trip) LocalStart() time.Time {
	return time.Unix(t.StartTime, 0).In(time.FixedZone("", t.TimezoneOffsetMinutes*60))
}

// LocalEnd returns the end time in the trip's timezone.
func (t *Trip) LocalEnd() time.Time {
	return time.Unix(t.EndTime, 0).In(time.FixedZone("", t.TimezoneOffsetMinutes*60))
}

// DestinationPlaceIDs returns the ordered destination place ids.
func (t *Trip) DestinationPlaceIDs() []string {
	ids := make([]string, 0, len(t.Destinations))
	for _, d := range t.Destinations {
		ids = append(ids, d.PlaceID)
	}
	return ids
}

// TripsResponse represents a paginated response of trips
type TripsResponse struct {
	Data       []Trip `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}
