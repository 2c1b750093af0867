package models

// DetectionParams carries the tunable thresholds a detection run uses.
type DetectionParams struct {
	HomeRadiusMeters      float64 `json:"home_radius_meters"`
	ClusterDistanceMeters float64 `json:"cluster_distance_meters"`
	ClusterTimeGapSeconds int64   `json:"cluster_time_gap_seconds"`
}

// AlgorithmResult is the per-detector outcome inside one detection run.
type AlgorithmResult struct {
	Algorithm       string `json:"algorithm"`
	TripsCreated    int    `json:"trips_created"`
	SegmentsSkipped int    `json:"segments_skipped"`
	Error           string `json:"error,omitempty"`
}

// DetectionReport summarizes one detection run across algorithms.
type DetectionReport struct {
	RunID           string            `json:"run_id"`
	Range           TimeRange         `json:"range"`
	Results         []AlgorithmResult `json:"results"`
	TotalTrips      int               `json:"total_trips"`
	SegmentsSkipped int               `json:"segments_skipped"`
	Failures        []string          `json:"failures,omitempty"`
	DurationMs      int64             `json:"duration_ms"`
}

// EnrichmentReport summarizes one place enrichment run.
type EnrichmentReport struct {
	RunID      string            `json:"run_id"`
	Requested  int               `json:"requested"`
	Resolved   int               `json:"resolved"`
	Failed     int               `json:"failed"`
	Retried    int               `json:"retried"`
	Skipped    int               `json:"skipped"` // served from cache or permanently failed
	Failures   map[string]string `json:"failures,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}

// ImportReport summarizes one timeline import.
type ImportReport struct {
	RunID           string `json:"run_id"`
	Visits          int    `json:"visits"`
	Activities      int    `json:"activities"`
	Paths           int    `json:"paths"`
	Memories        int    `json:"memories"`
	Skipped         int    `json:"skipped"`
	ProfileImported bool   `json:"profile_imported"`
	Affinities      int    `json:"affinities"`
	DurationMs      int64  `json:"duration_ms"`
}
