package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/models"
)

// TripRepository handles database operations for detected trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, detection_algorithm, start_time, end_time, timezone_offset_minutes,
	origin_place_id, total_distance_meters, primary_transport_mode, is_multi_day, created_at`

// ReplaceTrips atomically replaces one algorithm's trips for a time range:
// prior trips of that algorithm intersecting the range are deleted and the
// new set is inserted in the same transaction, so a failure leaves the
// previous trip set intact. Other algorithms' trips are never touched.
func (r *TripRepository) ReplaceTrips(algorithm string, tr models.TimeRange, trips []models.Trip) error {
	if !models.IsValidAlgorithm(algorithm) {
		return fmt.Errorf("invalid detection algorithm: %s", algorithm)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		deleteQuery := "DELETE FROM trips WHERE detection_algorithm = ?"
		deleteArgs := []interface{}{algorithm}
		if tr.Start > 0 {
			deleteQuery += " AND end_time > ?"
			deleteArgs = append(deleteArgs, tr.Start)
		}
		if tr.End > 0 {
			deleteQuery += " AND start_time < ?"
			deleteArgs = append(deleteArgs, tr.End)
		}

		// Destinations and segment refs go away via ON DELETE CASCADE.
		if _, err := tx.Exec(deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("failed to delete prior trips: %w", err)
		}

		tripStmt, err := tx.Prepare(`INSERT INTO trips
			(detection_algorithm, start_time, end_time, timezone_offset_minutes,
			 origin_place_id, total_distance_meters, primary_transport_mode, is_multi_day, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare trip insert: %w", err)
		}
		defer tripStmt.Close()

		destStmt, err := tx.Prepare(`INSERT INTO trip_destinations (trip_id, place_id, visit_order) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare destination insert: %w", err)
		}
		defer destStmt.Close()

		segStmt, err := tx.Prepare(`INSERT INTO trip_segments (trip_id, segment_id, segment_order) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare trip segment insert: %w", err)
		}
		defer segStmt.Close()

		now := time.Now().Unix()
		for i := range trips {
			trip := &trips[i]
			if trip.CreatedAt == 0 {
				trip.CreatedAt = now
			}
			res, err := tripStmt.Exec(algorithm, trip.StartTime, trip.EndTime, trip.TimezoneOffsetMinutes,
				nullableString(trip.OriginPlaceID), trip.TotalDistanceMeters,
				nullableString(trip.PrimaryTransportMode), trip.IsMultiDay, trip.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert trip: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get trip id: %w", err)
			}
			trip.ID = id

			for _, dest := range trip.Destinations {
				if _, err := destStmt.Exec(id, dest.PlaceID, dest.VisitOrder); err != nil {
					return fmt.Errorf("failed to insert trip destination: %w", err)
				}
			}
			for order, segID := range trip.SegmentIDs {
				if _, err := segStmt.Exec(id, segID, order); err != nil {
					return fmt.Errorf("failed to insert trip segment: %w", err)
				}
			}
		}
		return nil
	})
}

// List retrieves trips with filtering and pagination
func (r *TripRepository) List(filter models.TripFilter) ([]models.Trip, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Algorithm != "" {
		conditions = append(conditions, "detection_algorithm = ?")
		args = append(args, filter.Algorithm)
	}
	if filter.Year > 0 {
		// Bucket by the trip's own local calendar, not UTC.
		conditions = append(conditions, "CAST(strftime('%Y', start_time + timezone_offset_minutes * 60, 'unixepoch') AS INTEGER) = ?")
		args = append(args, filter.Year)
	}
	if filter.MultiDay == "true" {
		conditions = append(conditions, "is_multi_day = 1")
	} else if filter.MultiDay == "false" {
		conditions = append(conditions, "is_multi_day = 0")
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "end_time > ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "start_time < ?")
		args = append(args, filter.EndTime)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
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

	query := "SELECT " + tripColumns + " FROM trips" + where + " ORDER BY start_time DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachDestinations(trips); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// ListForStats returns all trips (optionally restricted to one algorithm and
// a time range) with destinations attached, ordered by start time.
func (r *TripRepository) ListForStats(algorithm string, tr models.TimeRange) ([]models.Trip, error) {
	var conditions []string
	var args []interface{}

	if algorithm != "" {
		conditions = append(conditions, "detection_algorithm = ?")
		args = append(args, algorithm)
	}
	if tr.Start > 0 {
		conditions = append(conditions, "end_time > ?")
		args = append(args, tr.Start)
	}
	if tr.End > 0 {
		conditions = append(conditions, "start_time < ?")
		args = append(args, tr.End)
	}

	query := "SELECT " + tripColumns + " FROM trips"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachDestinations(trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// GetByID retrieves a single trip with destinations and segment references.
// Returns nil when the trip does not exist.
func (r *TripRepository) GetByID(id int64) (*models.Trip, error) {
	row := r.db.QueryRow("SELECT "+tripColumns+" FROM trips WHERE id = ?", id)

	var t models.Trip
	var origin, mode sql.NullString
	err := row.Scan(&t.ID, &t.DetectionAlgorithm, &t.StartTime, &t.EndTime, &t.TimezoneOffsetMinutes,
		&origin, &t.TotalDistanceMeters, &mode, &t.IsMultiDay, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	t.OriginPlaceID = origin.String
	t.PrimaryTransportMode = mode.String

	trips := []models.Trip{t}
	if err := r.attachDestinations(trips); err != nil {
		return nil, err
	}

	segRows, err := r.db.Query(`SELECT segment_id FROM trip_segments WHERE trip_id = ? ORDER BY segment_order`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip segments: %w", err)
	}
	defer segRows.Close()
	for segRows.Next() {
		var segID int64
		if err := segRows.Scan(&segID); err != nil {
			return nil, fmt.Errorf("failed to scan trip segment: %w", err)
		}
		trips[0].SegmentIDs = append(trips[0].SegmentIDs, segID)
	}

	return &trips[0], nil
}

func (r *TripRepository) attachDestinations(trips []models.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	index := make(map[int64]*models.Trip, len(trips))
	placeholders := make([]string, 0, len(trips))
	args := make([]interface{}, 0, len(trips))
	for i := range trips {
		index[trips[i].ID] = &trips[i]
		placeholders = append(placeholders, "?")
		args = append(args, trips[i].ID)
	}

	query := `SELECT trip_id, place_id, visit_order FROM trip_destinations
		WHERE trip_id IN (` + strings.Join(placeholders, ",") + `) ORDER BY trip_id, visit_order`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to query trip destinations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.TripDestination
		if err := rows.Scan(&d.TripID, &d.PlaceID, &d.VisitOrder); err != nil {
			return fmt.Errorf("failed to scan trip destination: %w", err)
		}
		if t, ok := index[d.TripID]; ok {
			t.Destinations = append(t.Destinations, d)
		}
	}
	return nil
}

func scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		var origin, mode sql.NullString
		err := rows.Scan(&t.ID, &t.DetectionAlgorithm, &t.StartTime, &t.EndTime, &t.TimezoneOffsetMinutes,
			&origin, &t.TotalDistanceMeters, &mode, &t.IsMultiDay, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		t.OriginPlaceID = origin.String
		t.PrimaryTransportMode = mode.String
		trips = append(trips, t)
	}
	return trips, nil
}
