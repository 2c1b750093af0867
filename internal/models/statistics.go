package models

// YearlyStats is a per-calendar-year rollup over segments and trips.
type YearlyStats struct {
	Year                   int     `json:"year"`
	ActivityDistanceMeters float64 `json:"activity_distance_meters"`
	SegmentDurationSeconds int64   `json:"segment_duration_seconds"`
	DistinctPlaces         int     `json:"distinct_places"`
	TripCount              int     `json:"trip_count"`
}

// MonthlyStats is a per-month rollup within one year.
type MonthlyStats struct {
	Year                   int     `json:"year"`
	Month                  int     `json:"month"` // 1-12
	ActivityDistanceMeters float64 `json:"activity_distance_meters"`
	SegmentDurationSeconds int64   `json:"segment_duration_seconds"`
	DistinctPlaces         int     `json:"distinct_places"`
	TripCount              int     `json:"trip_count"`
}

// RoutePair is one ordered (origin, destination) place pair with its
// occurrence count across trips.
type RoutePair struct {
	FromPlaceID string `json:"from_place_id"`
	ToPlaceID   string `json:"to_place_id"`
	Count       int    `json:"count"`
}

// HourBucket is one hour-of-day histogram bucket.
type HourBucket struct {
	Hour  int `json:"hour"` // 0-23, local time
	Count int `json:"count"`
}

// WeekdayBucket is one day-of-week histogram bucket.
type WeekdayBucket struct {
	Weekday string `json:"weekday"` // Sunday ... Saturday
	Count   int    `json:"count"`
}

// PeakTimes holds the top-N activity/visit start-time buckets.
type PeakTimes struct {
	Hours    []HourBucket    `json:"hours"`
	Weekdays []WeekdayBucket `json:"weekdays"`
}

// OverviewStats summarizes the detected trip set.
type OverviewStats struct {
	TotalTrips       int     `json:"total_trips"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalDurationHrs float64 `json:"total_duration_hours"`
	AvgDistanceKm    float64 `json:"avg_distance_km"`
	AvgDurationHrs   float64 `json:"avg_duration_hours"`
	MultiDayTrips    int     `json:"multi_day_trips"`
	SingleDayTrips   int     `json:"single_day_trips"`
}

// TransportModeStats is the trip breakdown for one primary transport mode.
type TransportModeStats struct {
	Mode            string  `json:"mode"`
	TripCount       int     `json:"trip_count"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	AvgDistanceKm   float64 `json:"avg_distance_km"`
}

// SeasonStats is the trip rollup for one meteorological season.
type SeasonStats struct {
	Season          string  `json:"season"` // Winter, Spring, Summer, Fall
	TripCount       int     `json:"trip_count"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	AvgDistanceKm   float64 `json:"avg_distance_km"`
}

// DistributionBucket is one labelled histogram bucket.
type DistributionBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// TripDistributions histograms the trip set by duration and by distance.
type TripDistributions struct {
	Duration []DistributionBucket `json:"duration"`
	Distance []DistributionBucket `json:"distance"`
}

// TopDestination is a place ranked by how many trips stop there.
type TopDestination struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	TripCount int     `json:"trip_count"`
}
