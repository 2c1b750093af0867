package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

const sampleExport = `{
  "semanticSegments": [
    {
      "startTime": "2023-06-01T08:00:00.000Z",
      "endTime": "2023-06-01T09:30:00.000Z",
      "startTimeTimezoneUtcOffsetMinutes": 120,
      "visit": {
        "probability": 0.92,
        "hierarchyLevel": 0,
        "topCandidate": {
          "placeId": "place-home",
          "semanticType": "HOME",
          "placeLocation": {"latLng": "52.5200066°, 13.4049540°"}
        }
      }
    },
    {
      "startTime": "2023-06-01T09:30:00.000Z",
      "endTime": "2023-06-01T10:00:00.000Z",
      "startTimeTimezoneUtcOffsetMinutes": 120,
      "activity": {
        "start": {"latLng": "52.5200066°, 13.4049540°"},
        "end": {"latLng": "52.3906° , 13.0645°"},
        "distanceMeters": 31250.5,
        "topCandidate": {"type": "IN_PASSENGER_VEHICLE", "probability": 0.88}
      }
    },
    {
      "startTime": "2023-06-01T10:00:00.000Z",
      "endTime": "2023-06-01T10:20:00.000Z",
      "timelinePath": [
        {"point": "52.3906°, 13.0645°", "time": "2023-06-01T10:05:00.000Z"},
        {"point": "52.3910°, 13.0650°", "time": "2023-06-01T10:10:00.000Z"}
      ]
    },
    {
      "startTime": "2023-07-10T00:00:00.000Z",
      "endTime": "2023-07-14T00:00:00.000Z",
      "timelineMemory": {
        "trip": {
          "distanceFromOriginKms": 212,
          "destinations": [
            {"identifier": {"placeId": "place-coast"}},
            {"identifier": {"placeId": "place-island"}}
          ]
        }
      }
    },
    {
      "startTime": "not-a-timestamp",
      "endTime": "2023-06-02T10:00:00.000Z",
      "visit": {"topCandidate": {"placeId": "place-x"}}
    },
    {
      "startTime": "2023-06-03T10:00:00.000Z",
      "endTime": "2023-06-03T11:00:00.000Z",
      "timelineMemory": {}
    }
  ],
  "userLocationProfile": {
    "homeAddress": [{"placeId": "place-home", "placeLocation": "52.5200066°, 13.4049540°"}],
    "workAddress": [{"placeId": "place-office", "placeLocation": "52.5096°, 13.3762°"}]
  },
  "persona": {
    "travelModeAffinities": [
      {"mode": "DRIVING", "affinity": 0.7},
      {"mode": "WALKING", "affinity": 0.2}
    ]
  }
}`

func TestParse_FullExport(t *testing.T) {
	parsed, err := Parse([]byte(sampleExport))
	require.NoError(t, err)

	require.Len(t, parsed.Segments, 4)
	assert.Equal(t, 2, parsed.Skipped)
	require.Len(t, parsed.Warnings, 1)
	assert.Contains(t, parsed.Warnings[0], "startTime")

	visit := parsed.Segments[0]
	assert.Equal(t, models.KindVisit, visit.Kind)
	assert.Equal(t, time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC).Unix(), visit.StartTime)
	assert.Equal(t, time.Date(2023, 6, 1, 9, 30, 0, 0, time.UTC).Unix(), visit.EndTime)
	assert.Equal(t, 120, visit.TimezoneOffsetMinutes)
	require.NotNil(t, visit.Visit)
	assert.Equal(t, "place-home", visit.Visit.PlaceID)
	assert.Equal(t, models.SemanticHome, visit.Visit.SemanticType)
	assert.InDelta(t, 0.92, visit.Visit.Probability, 1e-9)
	require.NotNil(t, visit.Visit.Location)
	assert.InDelta(t, 52.5200066, visit.Visit.Location.Lat, 1e-7)
	assert.InDelta(t, 13.4049540, visit.Visit.Location.Lng, 1e-7)
	assert.Contains(t, visit.RawData, "place-home")

	activity := parsed.Segments[1]
	assert.Equal(t, models.KindActivity, activity.Kind)
	require.NotNil(t, activity.Activity)
	assert.InDelta(t, 31250.5, activity.Activity.DistanceMeters, 1e-9)
	assert.Equal(t, "IN_PASSENGER_VEHICLE", activity.Activity.ActivityType)
	assert.InDelta(t, 0.88, activity.Activity.Probability, 1e-9)
	require.NotNil(t, activity.Activity.StartLocation)
	require.NotNil(t, activity.Activity.EndLocation)
	assert.InDelta(t, 52.3906, activity.Activity.EndLocation.Lat, 1e-7)

	path := parsed.Segments[2]
	assert.Equal(t, models.KindPath, path.Kind)
	require.Len(t, path.PathPoints, 2)
	assert.Equal(t, time.Date(2023, 6, 1, 10, 5, 0, 0, time.UTC).Unix(), path.PathPoints[0].RecordedAt)
	assert.InDelta(t, 13.0650, path.PathPoints[1].Location.Lng, 1e-7)

	memory := parsed.Segments[3]
	assert.Equal(t, models.KindMemory, memory.Kind)
	require.NotNil(t, memory.Memory)
	assert.InDelta(t, 212.0, memory.Memory.DistanceFromOriginKm, 1e-9)
	assert.Equal(t, []string{"place-coast", "place-island"}, memory.Memory.DestinationPlaceIDs)

	require.NotNil(t, parsed.Profile)
	assert.Equal(t, "place-home", parsed.Profile.HomePlaceID)
	require.NotNil(t, parsed.Profile.HomeLocation)
	assert.InDelta(t, 52.5200066, parsed.Profile.HomeLocation.Lat, 1e-7)
	assert.Equal(t, "place-office", parsed.Profile.WorkPlaceID)

	require.Len(t, parsed.Affinities, 2)
	assert.Equal(t, models.TravelModeAffinity{Mode: "DRIVING", Affinity: 0.7}, parsed.Affinities[0])
}

func TestParse_RejectsBrokenDocument(t *testing.T) {
	_, err := Parse([]byte("not json at all"))
	assert.Error(t, err)
}

func TestParse_MissingProfileAndPersona(t *testing.T) {
	parsed, err := Parse([]byte(`{"semanticSegments": []}`))
	require.NoError(t, err)
	assert.Nil(t, parsed.Profile)
	assert.Empty(t, parsed.Affinities)
	assert.Empty(t, parsed.Segments)
}

func TestParse_EmptyProfileStaysNil(t *testing.T) {
	parsed, err := Parse([]byte(`{"userLocationProfile": {"homeAddress": [], "workAddress": []}}`))
	require.NoError(t, err)
	assert.Nil(t, parsed.Profile)
}

func TestParse_VisitWithoutSemanticTypeDefaultsToUnknown(t *testing.T) {
	doc := `{"semanticSegments": [{
		"startTime": "2023-06-01T08:00:00Z",
		"endTime": "2023-06-01T09:00:00Z",
		"visit": {"topCandidate": {"placeId": "place-y"}}
	}]}`
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, parsed.Segments, 1)
	assert.Equal(t, models.SemanticUnknown, parsed.Segments[0].Visit.SemanticType)
	assert.Nil(t, parsed.Segments[0].Visit.Location)
}

func TestParseLatLng(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *models.LatLng
	}{
		{"degree format", "19.0669029°, 72.8513023°", &models.LatLng{Lat: 19.0669029, Lng: 72.8513023}},
		{"negative coordinates", "-33.8688°, 151.2093°", &models.LatLng{Lat: -33.8688, Lng: 151.2093}},
		{"empty", "", nil},
		{"garbage", "somewhere nice", nil},
		{"single part", "19.0669029°", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLatLng(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want.Lat, got.Lat, 1e-9)
			assert.InDelta(t, tt.want.Lng, got.Lng, 1e-9)
		})
	}
}
