package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// PlaceRepository handles database operations for cached places
type PlaceRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

const placeColumns = `place_id, name, formatted_address, types, lat, lng,
	rating, user_ratings_total, api_response, status, fetch_attempts, last_updated`

// GetByID retrieves a cached place. Returns nil when not cached.
func (r *PlaceRepository) GetByID(placeID string) (*models.Place, error) {
	row := r.db.QueryRow("SELECT "+placeColumns+" FROM places WHERE place_id = ?", placeID)
	place, err := scanPlace(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return place, nil
}

// GetByIDs retrieves the cached subset of the given place ids.
func (r *PlaceRepository) GetByIDs(placeIDs []string) (map[string]*models.Place, error) {
	result := make(map[string]*models.Place, len(placeIDs))
	if len(placeIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(placeIDs)), ",")
	args := make([]interface{}, len(placeIDs))
	for i, id := range placeIDs {
		args[i] = id
	}

	rows, err := r.db.Query("SELECT "+placeColumns+" FROM places WHERE place_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		place, err := scanPlace(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		result[place.PlaceID] = place
	}
	return result, nil
}

// Upsert stores a successfully fetched place record, incrementing its
// attempt counter and resetting its status to ok.
func (r *PlaceRepository) Upsert(place *models.Place) error {
	types, err := json.Marshal(place.Types)
	if err != nil {
		return fmt.Errorf("failed to marshal place types: %w", err)
	}

	var lat, lng interface{}
	if place.Location != nil {
		lat, lng = place.Location.Lat, place.Location.Lng
	}

	_, err = r.db.Exec(`INSERT INTO places
		(place_id, name, formatted_address, types, lat, lng, rating, user_ratings_total, api_response, status, fetch_attempts, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'ok', 1, ?)
		ON CONFLICT(place_id) DO UPDATE SET
			name = excluded.name,
			formatted_address = excluded.formatted_address,
			types = excluded.types,
			lat = excluded.lat,
			lng = excluded.lng,
			rating = excluded.rating,
			user_ratings_total = excluded.user_ratings_total,
			api_response = excluded.api_response,
			status = 'ok',
			fetch_attempts = places.fetch_attempts + 1,
			last_updated = excluded.last_updated`,
		place.PlaceID, place.Name, place.FormattedAddress, string(types),
		lat, lng, place.Rating, place.UserRatingsTotal, place.APIResponse, place.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert place: %w", err)
	}
	return nil
}

// MarkFailed records a failed lookup attempt, creating the row if needed.
func (r *PlaceRepository) MarkFailed(placeID string, now int64) error {
	_, err := r.db.Exec(`INSERT INTO places (place_id, status, fetch_attempts, last_updated)
		VALUES (?, 'failed', 1, ?)
		ON CONFLICT(place_id) DO UPDATE SET
			status = 'failed',
			fetch_attempts = places.fetch_attempts + 1,
			last_updated = excluded.last_updated`,
		placeID, now)
	if err != nil {
		return fmt.Errorf("failed to mark place failed: %w", err)
	}
	return nil
}

// List retrieves places with filtering and pagination
func (r *PlaceRepository) List(filter models.PlaceFilter) ([]models.Place, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM places"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count places: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := "SELECT " + placeColumns + " FROM places" + where + " ORDER BY place_id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		place, err := scanPlace(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}
	return places, total, nil
}

// ListResolved returns every successfully resolved place with a name,
// ordered by place id. Failed and still-anonymous rows are left out.
func (r *PlaceRepository) ListResolved() ([]models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places WHERE status = ? AND name != '' ORDER BY place_id"
	rows, err := r.db.Query(query, models.PlaceStatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		place, err := scanPlace(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}
	return places, nil
}

func scanPlace(scan func(dest ...interface{}) error) (*models.Place, error) {
	var p models.Place
	var name, address, apiResponse sql.NullString
	var typesJSON sql.NullString
	var lat, lng, rating sql.NullFloat64
	var ratingsTotal sql.NullInt64

	err := scan(&p.PlaceID, &name, &address, &typesJSON, &lat, &lng,
		&rating, &ratingsTotal, &apiResponse, &p.Status, &p.FetchAttempts, &p.LastUpdated)
	if err != nil {
		return nil, err
	}

	p.Name = name.String
	p.FormattedAddress = address.String
	p.APIResponse = apiResponse.String
	p.Rating = rating.Float64
	p.UserRatingsTotal = int(ratingsTotal.Int64)
	p.Location = nullableLatLng(lat, lng)
	if typesJSON.Valid && typesJSON.String != "" {
		_ = json.Unmarshal([]byte(typesJSON.String), &p.Types)
	}
	return &p, nil
}
