package models

// UserProfile holds the single home/work reference profile used to classify
// away-from-home spans. At most one row exists per store.
type UserProfile struct {
	HomePlaceID  string  `json:"home_place_id,omitempty" db:"home_place_id"`
	WorkPlaceID  string  `json:"work_place_id,omitempty" db:"work_place_id"`
	HomeLocation *LatLng `json:"home_location,omitempty"`
	WorkLocation *LatLng `json:"work_location,omitempty"`
}

// TravelModeAffinity is the export's persona entry for one transport mode.
type TravelModeAffinity struct {
	Mode     string  `json:"mode" db:"mode"`
	Affinity float64 `json:"affinity" db:"affinity"`
}
