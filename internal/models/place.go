package models

// Place is a cached record for an external place identifier. Rows are
// created on first lookup and refreshed in place; they are never deleted.
type Place struct {
	PlaceID          string   `json:"place_id" db:"place_id"`
	Name             string   `json:"name,omitempty" db:"name"`
	FormattedAddress string   `json:"formatted_address,omitempty" db:"formatted_address"`
	Types            []string `json:"types,omitempty"`
	Location         *LatLng  `json:"location,omitempty"`
	Rating           float64  `json:"rating,omitempty" db:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty" db:"user_ratings_total"`

	// Lookup bookkeeping
	Status        string `json:"status" db:"status"` // ok, failed
	FetchAttempts int    `json:"fetch_attempts" db:"fetch_attempts"`
	LastUpdated   int64  `json:"last_updated" db:"last_updated"` // Unix timestamp

	// Raw lookup payload, kept verbatim for forward compatibility
	APIResponse string `json:"-" db:"api_response"`
}

// PlaceStatus constants
const (
	PlaceStatusOK     = "ok"
	PlaceStatusFailed = "failed"
)

// PlacesResponse represents a paginated response of places
type PlacesResponse struct {
	Data       []Place `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
