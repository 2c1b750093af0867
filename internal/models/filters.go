package models

// TimeRange bounds a query or a detection run. Zero values mean unbounded.
type TimeRange struct {
	Start int64 `json:"start" form:"start"` // Unix timestamp, inclusive
	End   int64 `json:"end" form:"end"`     // Unix timestamp, exclusive
}

// IsZero reports whether the range is fully unbounded.
func (r TimeRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Contains reports whether t falls inside the range, honoring open bounds.
func (r TimeRange) Contains(t int64) bool {
	if r.Start != 0 && t < r.Start {
		return false
	}
	if r.End != 0 && t >= r.End {
		return false
	}
	return true
}

// SegmentFilter represents filter parameters for querying segments
type SegmentFilter struct {
	Kind      string `form:"kind"`      // visit, activity, path, memory
	PlaceID   string `form:"placeId"`   // visits referencing this place
	StartTime int64  `form:"startTime"` // Unix timestamp
	EndTime   int64  `form:"endTime"`   // Unix timestamp
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// TripFilter represents filter parameters for querying trips
type TripFilter struct {
	Algorithm string `form:"algorithm"` // memory, home, overnight, distance
	Year      int    `form:"year"`
	MultiDay  string `form:"multiDay"` // "", "true", "false"
	StartTime int64  `form:"startTime"`
	EndTime   int64  `form:"endTime"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// PlaceFilter represents filter parameters for querying places
type PlaceFilter struct {
	Status   string `form:"status"` // ok, failed
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// StatsFilter represents filter parameters for statistics queries
type StatsFilter struct {
	Algorithm      string `form:"algorithm"` // restricts trips to one detector
	Year           int    `form:"year"`
	StartTime      int64  `form:"startTime"`
	EndTime        int64  `form:"endTime"`
	MinOccurrences int    `form:"minOccurrences"` // frequent routes threshold
	Top            int    `form:"top"`            // peak-time buckets to report
	Limit          int    `form:"limit"`          // max results
	By             string `form:"by"`             // distance, duration
}
