package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/models"
)

// SegmentRepository handles database operations for timeline segments
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

const segmentSelectColumns = `s.id, s.segment_type, s.start_time, s.end_time, s.timezone_offset_minutes,
	v.place_id, v.semantic_type, v.probability, v.lat, v.lng, v.hierarchy_level,
	a.start_lat, a.start_lng, a.end_lat, a.end_lng, a.distance_meters, a.activity_type, a.probability,
	m.distance_from_origin_km, m.destination_place_ids`

const segmentJoins = `FROM timeline_segments s
	LEFT JOIN visits v ON v.segment_id = s.id
	LEFT JOIN activities a ON a.segment_id = s.id
	LEFT JOIN timeline_memories m ON m.segment_id = s.id`

// BatchInsert stores a batch of segments with their subtype rows in one
// transaction. Segment IDs are filled in on success.
func (r *SegmentRepository) BatchInsert(segments []models.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		segStmt, err := tx.Prepare(`INSERT INTO timeline_segments
			(segment_type, start_time, end_time, timezone_offset_minutes, raw_data)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare segment insert: %w", err)
		}
		defer segStmt.Close()

		for i := range segments {
			seg := &segments[i]
			res, err := segStmt.Exec(seg.Kind, seg.StartTime, seg.EndTime, seg.TimezoneOffsetMinutes, seg.RawData)
			if err != nil {
				return fmt.Errorf("failed to insert segment: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get segment id: %w", err)
			}
			seg.ID = id

			if err := insertSubtype(tx, seg); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSubtype(tx *sql.Tx, seg *models.Segment) error {
	switch {
	case seg.Visit != nil:
		v := seg.Visit
		v.SegmentID = seg.ID
		var lat, lng interface{}
		if v.Location != nil {
			lat, lng = v.Location.Lat, v.Location.Lng
		}
		_, err := tx.Exec(`INSERT INTO visits
			(segment_id, place_id, semantic_type, probability, lat, lng, hierarchy_level)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, nullableString(v.PlaceID), v.SemanticType, v.Probability, lat, lng, v.HierarchyLevel)
		if err != nil {
			return fmt.Errorf("failed to insert visit: %w", err)
		}

	case seg.Activity != nil:
		a := seg.Activity
		a.SegmentID = seg.ID
		var sLat, sLng, eLat, eLng interface{}
		if a.StartLocation != nil {
			sLat, sLng = a.StartLocation.Lat, a.StartLocation.Lng
		}
		if a.EndLocation != nil {
			eLat, eLng = a.EndLocation.Lat, a.EndLocation.Lng
		}
		_, err := tx.Exec(`INSERT INTO activities
			(segment_id, start_lat, start_lng, end_lat, end_lng, distance_meters, activity_type, probability)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, sLat, sLng, eLat, eLng, a.DistanceMeters, a.ActivityType, a.Probability)
		if err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}

	case seg.Memory != nil:
		m := seg.Memory
		m.SegmentID = seg.ID
		ids, err := json.Marshal(m.DestinationPlaceIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal destination ids: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO timeline_memories
			(segment_id, distance_from_origin_km, destination_place_ids)
			VALUES (?, ?, ?)`,
			seg.ID, m.DistanceFromOriginKm, string(ids))
		if err != nil {
			return fmt.Errorf("failed to insert memory: %w", err)
		}

	case len(seg.PathPoints) > 0:
		stmt, err := tx.Prepare(`INSERT INTO path_points (segment_id, lat, lng, recorded_at) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare path point insert: %w", err)
		}
		defer stmt.Close()
		for i := range seg.PathPoints {
			p := &seg.PathPoints[i]
			p.SegmentID = seg.ID
			if _, err := stmt.Exec(seg.ID, p.Location.Lat, p.Location.Lng, p.RecordedAt); err != nil {
				return fmt.Errorf("failed to insert path point: %w", err)
			}
		}
	}
	return nil
}

// ListByTimeRange returns the full ordered segment stream overlapping the
// range (whole stream when the range is zero). Subtype payloads are attached;
// path points are not loaded here.
func (r *SegmentRepository) ListByTimeRange(tr models.TimeRange) ([]models.Segment, error) {
	query := "SELECT " + segmentSelectColumns + " " + segmentJoins

	var conditions []string
	var args []interface{}
	if tr.Start > 0 {
		conditions = append(conditions, "s.end_time > ?")
		args = append(args, tr.Start)
	}
	if tr.End > 0 {
		conditions = append(conditions, "s.start_time < ?")
		args = append(args, tr.End)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.start_time, s.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	return scanSegments(rows)
}

// List retrieves segments with filtering and pagination
func (r *SegmentRepository) List(filter models.SegmentFilter) ([]models.Segment, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Kind != "" {
		conditions = append(conditions, "s.segment_type = ?")
		args = append(args, filter.Kind)
	}
	if filter.PlaceID != "" {
		conditions = append(conditions, "v.place_id = ?")
		args = append(args, filter.PlaceID)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "s.start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "s.end_time <= ?")
		args = append(args, filter.EndTime)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Get total count
	countQuery := "SELECT COUNT(*) " + segmentJoins + where
	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
	}

	// Add pagination
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

	query := "SELECT " + segmentSelectColumns + " " + segmentJoins + where +
		" ORDER BY s.start_time, s.id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments, err := scanSegments(rows)
	if err != nil {
		return nil, 0, err
	}
	return segments, total, nil
}

// GetByID retrieves a single segment with its subtype payload, including
// path points. Returns nil when the segment does not exist.
func (r *SegmentRepository) GetByID(id int64) (*models.Segment, error) {
	query := "SELECT " + segmentSelectColumns + " " + segmentJoins + " WHERE s.id = ?"

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment: %w", err)
	}
	defer rows.Close()

	segments, err := scanSegments(rows)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, nil
	}
	seg := &segments[0]

	if seg.Kind == models.KindPath {
		points, err := r.listPathPoints(id)
		if err != nil {
			return nil, err
		}
		seg.PathPoints = points
	}
	return seg, nil
}

func (r *SegmentRepository) listPathPoints(segmentID int64) ([]models.PathPoint, error) {
	rows, err := r.db.Query(`SELECT id, segment_id, lat, lng, recorded_at
		FROM path_points WHERE segment_id = ? ORDER BY recorded_at`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query path points: %w", err)
	}
	defer rows.Close()

	var points []models.PathPoint
	for rows.Next() {
		var p models.PathPoint
		if err := rows.Scan(&p.ID, &p.SegmentID, &p.Location.Lat, &p.Location.Lng, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan path point: %w", err)
		}
		points = append(points, p)
	}
	return points, nil
}

// DistinctPlaceIDs returns every place id referenced by visits and by
// memory destination lists, deduplicated.
func (r *SegmentRepository) DistinctPlaceIDs() ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	rows, err := r.db.Query(`SELECT DISTINCT place_id FROM visits WHERE place_id IS NOT NULL AND place_id != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit place ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan place id: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	memRows, err := r.db.Query(`SELECT destination_place_ids FROM timeline_memories`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory destinations: %w", err)
	}
	defer memRows.Close()
	for memRows.Next() {
		var raw string
		if err := memRows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan memory destinations: %w", err)
		}
		var destIDs []string
		if err := json.Unmarshal([]byte(raw), &destIDs); err != nil {
			continue
		}
		for _, id := range destIDs {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return ids, nil
}

func scanSegments(rows *sql.Rows) ([]models.Segment, error) {
	var segments []models.Segment
	for rows.Next() {
		var s models.Segment

		var vPlaceID, vSemantic sql.NullString
		var vProb sql.NullFloat64
		var vLat, vLng sql.NullFloat64
		var vLevel sql.NullInt64

		var aStartLat, aStartLng, aEndLat, aEndLng sql.NullFloat64
		var aDistance, aProb sql.NullFloat64
		var aType sql.NullString

		var mDistance sql.NullFloat64
		var mDestIDs sql.NullString

		err := rows.Scan(
			&s.ID, &s.Kind, &s.StartTime, &s.EndTime, &s.TimezoneOffsetMinutes,
			&vPlaceID, &vSemantic, &vProb, &vLat, &vLng, &vLevel,
			&aStartLat, &aStartLng, &aEndLat, &aEndLng, &aDistance, &aType, &aProb,
			&mDistance, &mDestIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		switch s.Kind {
		case models.KindVisit:
			s.Visit = &models.Visit{
				SegmentID:      s.ID,
				PlaceID:        vPlaceID.String,
				SemanticType:   vSemantic.String,
				Probability:    vProb.Float64,
				Location:       nullableLatLng(vLat, vLng),
				HierarchyLevel: int(vLevel.Int64),
			}
		case models.KindActivity:
			s.Activity = &models.Activity{
				SegmentID:      s.ID,
				StartLocation:  nullableLatLng(aStartLat, aStartLng),
				EndLocation:    nullableLatLng(aEndLat, aEndLng),
				DistanceMeters: aDistance.Float64,
				ActivityType:   aType.String,
				Probability:    aProb.Float64,
			}
		case models.KindMemory:
			mem := &models.Memory{
				SegmentID:            s.ID,
				DistanceFromOriginKm: mDistance.Float64,
			}
			if mDestIDs.Valid {
				_ = json.Unmarshal([]byte(mDestIDs.String), &mem.DestinationPlaceIDs)
			}
			s.Memory = mem
		}

		segments = append(segments, s)
	}
	return segments, nil
}

func nullableLatLng(lat, lng sql.NullFloat64) *models.LatLng {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &models.LatLng{Lat: lat.Float64, Lng: lng.Float64}
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
