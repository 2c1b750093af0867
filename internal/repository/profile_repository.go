package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/models"
)

// ProfileRepository handles the single-row home/work profile and the
// persona travel mode affinities.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the stored profile, or nil when none was imported.
func (r *ProfileRepository) Get() (*models.UserProfile, error) {
	row := r.db.QueryRow(`SELECT home_place_id, work_place_id, home_lat, home_lng, work_lat, work_lng
		FROM user_profile WHERE id = 1`)

	var homeID, workID sql.NullString
	var homeLat, homeLng, workLat, workLng sql.NullFloat64
	err := row.Scan(&homeID, &workID, &homeLat, &homeLng, &workLat, &workLng)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &models.UserProfile{
		HomePlaceID:  homeID.String,
		WorkPlaceID:  workID.String,
		HomeLocation: nullableLatLng(homeLat, homeLng),
		WorkLocation: nullableLatLng(workLat, workLng),
	}, nil
}

// Upsert stores the profile, replacing any previous row.
func (r *ProfileRepository) Upsert(profile *models.UserProfile) error {
	var homeLat, homeLng, workLat, workLng interface{}
	if profile.HomeLocation != nil {
		homeLat, homeLng = profile.HomeLocation.Lat, profile.HomeLocation.Lng
	}
	if profile.WorkLocation != nil {
		workLat, workLng = profile.WorkLocation.Lat, profile.WorkLocation.Lng
	}

	_, err := r.db.Exec(`INSERT INTO user_profile (id, home_place_id, work_place_id, home_lat, home_lng, work_lat, work_lng)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			home_place_id = excluded.home_place_id,
			work_place_id = excluded.work_place_id,
			home_lat = excluded.home_lat,
			home_lng = excluded.home_lng,
			work_lat = excluded.work_lat,
			work_lng = excluded.work_lng`,
		nullableString(profile.HomePlaceID), nullableString(profile.WorkPlaceID),
		homeLat, homeLng, workLat, workLng)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ReplaceAffinities replaces the stored travel mode affinities.
func (r *ProfileRepository) ReplaceAffinities(affinities []models.TravelModeAffinity) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM travel_mode_affinities"); err != nil {
			return fmt.Errorf("failed to clear affinities: %w", err)
		}
		for _, a := range affinities {
			if _, err := tx.Exec("INSERT INTO travel_mode_affinities (mode, affinity) VALUES (?, ?)",
				a.Mode, a.Affinity); err != nil {
				return fmt.Errorf("failed to insert affinity: %w", err)
			}
		}
		return nil
	})
}

// ListAffinities returns the stored travel mode affinities.
func (r *ProfileRepository) ListAffinities() ([]models.TravelModeAffinity, error) {
	rows, err := r.db.Query("SELECT mode, affinity FROM travel_mode_affinities ORDER BY affinity DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query affinities: %w", err)
	}
	defer rows.Close()

	var affinities []models.TravelModeAffinity
	for rows.Next() {
		var a models.TravelModeAffinity
		if err := rows.Scan(&a.Mode, &a.Affinity); err != nil {
			return nil, fmt.Errorf("failed to scan affinity: %w", err)
		}
		affinities = append(affinities, a)
	}
	return affinities, nil
}
