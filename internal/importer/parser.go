package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// Parsed is everything extracted from one timeline export file.
type Parsed struct {
	Segments   []models.Segment
	Profile    *models.UserProfile
	Affinities []models.TravelModeAffinity
	Skipped    int
	Warnings   []string
}

type timelineExport struct {
	SemanticSegments    []json.RawMessage   `json:"semanticSegments"`
	UserLocationProfile *rawLocationProfile `json:"userLocationProfile"`
	Persona             *rawPersona         `json:"persona"`
}

type rawSegment struct {
	StartTime      string         `json:"startTime"`
	EndTime        string         `json:"endTime"`
	TimezoneOffset int            `json:"startTimeTimezoneUtcOffsetMinutes"`
	Visit          *rawVisit      `json:"visit"`
	Activity       *rawActivity   `json:"activity"`
	TimelinePath   []rawPathPoint `json:"timelinePath"`
	TimelineMemory *rawMemory     `json:"timelineMemory"`
}

type rawVisit struct {
	Probability    float64         `json:"probability"`
	HierarchyLevel int             `json:"hierarchyLevel"`
	TopCandidate   rawTopCandidate `json:"topCandidate"`
}

type rawActivity struct {
	Start          rawPoint        `json:"start"`
	End            rawPoint        `json:"end"`
	DistanceMeters float64         `json:"distanceMeters"`
	TopCandidate   rawTopCandidate `json:"topCandidate"`
}

// rawTopCandidate carries both visit candidates (placeId/semanticType) and
// activity candidates (type/probability); the export reuses the key.
type rawTopCandidate struct {
	PlaceID       string           `json:"placeId"`
	SemanticType  string           `json:"semanticType"`
	PlaceLocation rawPlaceLocation `json:"placeLocation"`
	Type          string           `json:"type"`
	Probability   float64          `json:"probability"`
}

type rawPlaceLocation struct {
	LatLng string `json:"latLng"`
}

type rawPoint struct {
	LatLng string `json:"latLng"`
}

type rawPathPoint struct {
	Point string `json:"point"`
	Time  string `json:"time"`
}

type rawMemory struct {
	Trip *rawMemoryTrip `json:"trip"`
}

type rawMemoryTrip struct {
	DistanceFromOriginKms float64          `json:"distanceFromOriginKms"`
	Destinations          []rawDestination `json:"destinations"`
}

type rawDestination struct {
	Identifier rawIdentifier `json:"identifier"`
}

type rawIdentifier struct {
	PlaceID string `json:"placeId"`
}

type rawLocationProfile struct {
	HomeAddress []rawAddress `json:"homeAddress"`
	WorkAddress []rawAddress `json:"workAddress"`
}

type rawAddress struct {
	PlaceID       string `json:"placeId"`
	PlaceLocation string `json:"placeLocation"`
}

type rawPersona struct {
	TravelModeAffinities []models.TravelModeAffinity `json:"travelModeAffinities"`
}

// ParseFile reads and parses a Timeline.json export.
func ParseFile(path string) (*Parsed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a timeline export. Individual segments that fail to parse
// are counted and skipped with a warning; only a broken top-level document
// is an error.
func Parse(data []byte) (*Parsed, error) {
	var export timelineExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to decode timeline export: %w", err)
	}

	parsed := &Parsed{}
	for idx, raw := range export.SemanticSegments {
		seg, err := parseSegment(raw)
		if err != nil {
			parsed.Skipped++
			parsed.Warnings = append(parsed.Warnings, fmt.Sprintf("segment %d: %v", idx, err))
			continue
		}
		if seg == nil {
			// Present in the export but not a kind this system stores.
			parsed.Skipped++
			continue
		}
		parsed.Segments = append(parsed.Segments, *seg)
	}

	parsed.Profile = parseProfile(export.UserLocationProfile)
	if export.Persona != nil {
		parsed.Affinities = export.Persona.TravelModeAffinities
	}
	return parsed, nil
}

func parseSegment(data json.RawMessage) (*models.Segment, error) {
	var raw rawSegment
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid segment payload: %w", err)
	}

	start, err := parseTimestamp(raw.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime %q: %w", raw.StartTime, err)
	}
	end, err := parseTimestamp(raw.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime %q: %w", raw.EndTime, err)
	}

	seg := models.Segment{
		StartTime:             start,
		EndTime:               end,
		TimezoneOffsetMinutes: raw.TimezoneOffset,
		RawData:               string(data),
	}

	switch {
	case raw.Visit != nil:
		seg.Kind = models.KindVisit
		semantic := raw.Visit.TopCandidate.SemanticType
		if semantic == "" {
			semantic = models.SemanticUnknown
		}
		seg.Visit = &models.Visit{
			PlaceID:        raw.Visit.TopCandidate.PlaceID,
			SemanticType:   semantic,
			Probability:    raw.Visit.Probability,
			Location:       parseLatLng(raw.Visit.TopCandidate.PlaceLocation.LatLng),
			HierarchyLevel: raw.Visit.HierarchyLevel,
		}

	case raw.Activity != nil:
		seg.Kind = models.KindActivity
		activityType := raw.Activity.TopCandidate.Type
		if activityType == "" {
			activityType = models.SemanticUnknown
		}
		seg.Activity = &models.Activity{
			StartLocation:  parseLatLng(raw.Activity.Start.LatLng),
			EndLocation:    parseLatLng(raw.Activity.End.LatLng),
			DistanceMeters: raw.Activity.DistanceMeters,
			ActivityType:   activityType,
			Probability:    raw.Activity.TopCandidate.Probability,
		}

	case len(raw.TimelinePath) > 0:
		seg.Kind = models.KindPath
		for _, point := range raw.TimelinePath {
			loc := parseLatLng(point.Point)
			if loc == nil {
				continue
			}
			recordedAt, err := parseTimestamp(point.Time)
			if err != nil {
				continue
			}
			seg.PathPoints = append(seg.PathPoints, models.PathPoint{
				Location:   *loc,
				RecordedAt: recordedAt,
			})
		}

	case raw.TimelineMemory != nil && raw.TimelineMemory.Trip != nil:
		seg.Kind = models.KindMemory
		trip := raw.TimelineMemory.Trip
		var destinations []string
		for _, dest := range trip.Destinations {
			if dest.Identifier.PlaceID != "" {
				destinations = append(destinations, dest.Identifier.PlaceID)
			}
		}
		seg.Memory = &models.Memory{
			DistanceFromOriginKm: trip.DistanceFromOriginKms,
			DestinationPlaceIDs:  destinations,
		}

	default:
		return nil, nil
	}

	return &seg, nil
}

func parseProfile(raw *rawLocationProfile) *models.UserProfile {
	if raw == nil {
		return nil
	}

	profile := &models.UserProfile{}
	if len(raw.HomeAddress) > 0 {
		profile.HomePlaceID = raw.HomeAddress[0].PlaceID
		profile.HomeLocation = parseLatLng(raw.HomeAddress[0].PlaceLocation)
	}
	if len(raw.WorkAddress) > 0 {
		profile.WorkPlaceID = raw.WorkAddress[0].PlaceID
		profile.WorkLocation = parseLatLng(raw.WorkAddress[0].PlaceLocation)
	}
	if profile.HomePlaceID == "" && profile.WorkPlaceID == "" &&
		profile.HomeLocation == nil && profile.WorkLocation == nil {
		return nil
	}
	return profile
}

// parseTimestamp parses the export's ISO 8601 timestamps.
func parseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// parseLatLng parses the export's coordinate format: "19.0669029°, 72.8513023°".
func parseLatLng(s string) *models.LatLng {
	if s == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(s, "°", ""), ",")
	if len(parts) != 2 {
		return nil
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return nil
	}
	return &models.LatLng{Lat: lat, Lng: lng}
}
