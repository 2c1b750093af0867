package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

// ExportService writes stored trips and places in exchange formats.
type ExportService struct {
	tripRepo  *repository.TripRepository
	placeRepo *repository.PlaceRepository
}

// NewExportService creates a new export service
func NewExportService(tripRepo *repository.TripRepository, placeRepo *repository.PlaceRepository) *ExportService {
	return &ExportService{
		tripRepo:  tripRepo,
		placeRepo: placeRepo,
	}
}

var tripCSVHeader = []string{
	"id", "algorithm", "local_start", "local_end", "duration_seconds",
	"distance_km", "multi_day", "origin_place_id", "transport_mode", "destinations",
}

// tripExport is the JSON rendition of one exported trip, carrying the same
// fields as a CSV row.
type tripExport struct {
	ID              int64    `json:"id"`
	Algorithm       string   `json:"algorithm"`
	LocalStart      string   `json:"local_start"`
	LocalEnd        string   `json:"local_end"`
	DurationSeconds int64    `json:"duration_seconds"`
	DistanceKm      float64  `json:"distance_km"`
	MultiDay        bool     `json:"multi_day"`
	OriginPlaceID   string   `json:"origin_place_id,omitempty"`
	TransportMode   string   `json:"transport_mode,omitempty"`
	Destinations    []string `json:"destinations"`
}

// WriteTripsCSV streams the trips matching the filter as CSV. Timestamps are
// rendered in each trip's own timezone; destinations are joined with ";".
func (s *ExportService) WriteTripsCSV(w io.Writer, filter models.TripFilter) error {
	trips, err := s.exportableTrips(filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(tripCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range trips {
		trip := &trips[i]
		record := []string{
			strconv.FormatInt(trip.ID, 10),
			trip.DetectionAlgorithm,
			trip.LocalStart().Format(time.RFC3339),
			trip.LocalEnd().Format(time.RFC3339),
			strconv.FormatInt(trip.DurationSeconds(), 10),
			strconv.FormatFloat(trip.TotalDistanceMeters/1000, 'f', 2, 64),
			strconv.FormatBool(trip.IsMultiDay),
			trip.OriginPlaceID,
			trip.PrimaryTransportMode,
			strings.Join(trip.DestinationPlaceIDs(), ";"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTripsJSON streams the trips matching the filter as a JSON array.
func (s *ExportService) WriteTripsJSON(w io.Writer, filter models.TripFilter) error {
	trips, err := s.exportableTrips(filter)
	if err != nil {
		return err
	}

	exports := make([]tripExport, 0, len(trips))
	for i := range trips {
		trip := &trips[i]
		exports = append(exports, tripExport{
			ID:              trip.ID,
			Algorithm:       trip.DetectionAlgorithm,
			LocalStart:      trip.LocalStart().Format(time.RFC3339),
			LocalEnd:        trip.LocalEnd().Format(time.RFC3339),
			DurationSeconds: trip.DurationSeconds(),
			DistanceKm:      trip.TotalDistanceMeters / 1000,
			MultiDay:        trip.IsMultiDay,
			OriginPlaceID:   trip.OriginPlaceID,
			TransportMode:   trip.PrimaryTransportMode,
			Destinations:    trip.DestinationPlaceIDs(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exports); err != nil {
		return fmt.Errorf("failed to encode trips: %w", err)
	}
	return nil
}

func (s *ExportService) exportableTrips(filter models.TripFilter) ([]models.Trip, error) {
	if filter.Algorithm != "" && !models.IsValidAlgorithm(filter.Algorithm) {
		return nil, fmt.Errorf("invalid detection algorithm: %s", filter.Algorithm)
	}

	trips, err := s.tripRepo.ListForStats(filter.Algorithm, models.TimeRange{Start: filter.StartTime, End: filter.EndTime})
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}
	return trips, nil
}

var placeCSVHeader = []string{
	"place_id", "name", "address", "rating", "ratings_total", "types",
}

// placeExport is the JSON rendition of one exported place.
type placeExport struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	RatingsTotal int      `json:"ratings_total,omitempty"`
	Types        []string `json:"types"`
}

// WritePlacesCSV streams every resolved place as CSV; place types are joined
// with ",".
func (s *ExportService) WritePlacesCSV(w io.Writer) error {
	places, err := s.placeRepo.ListResolved()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(placeCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range places {
		place := &places[i]
		record := []string{
			place.PlaceID,
			place.Name,
			place.FormattedAddress,
			strconv.FormatFloat(place.Rating, 'f', 1, 64),
			strconv.Itoa(place.UserRatingsTotal),
			strings.Join(place.Types, ","),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WritePlacesJSON streams every resolved place as a JSON array.
func (s *ExportService) WritePlacesJSON(w io.Writer) error {
	places, err := s.placeRepo.ListResolved()
	if err != nil {
		return err
	}

	exports := make([]placeExport, 0, len(places))
	for i := range places {
		place := &places[i]
		exports = append(exports, placeExport{
			PlaceID:      place.PlaceID,
			Name:         place.Name,
			Address:      place.FormattedAddress,
			Rating:       place.Rating,
			RatingsTotal: place.UserRatingsTotal,
			Types:        place.Types,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exports); err != nil {
		return fmt.Errorf("failed to encode places: %w", err)
	}
	return nil
}
