package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

const importFixture = `{
  "semanticSegments": [
    {
      "startTime": "2024-03-01T08:00:00Z",
      "endTime": "2024-03-01T09:00:00Z",
      "startTimeTimezoneUtcOffsetMinutes": 60,
      "visit": {
        "probability": 0.92,
        "topCandidate": {
          "placeId": "place-home",
          "semanticType": "HOME",
          "placeLocation": {"latLng": "52.5200°, 13.4050°"}
        }
      }
    },
    {
      "startTime": "2024-03-01T09:00:00Z",
      "endTime": "2024-03-01T09:45:00Z",
      "startTimeTimezoneUtcOffsetMinutes": 60,
      "activity": {
        "start": {"latLng": "52.5200°, 13.4050°"},
        "end": {"latLng": "52.3906°, 13.0645°"},
        "distanceMeters": 31250.5,
        "topCandidate": {"type": "IN_PASSENGER_VEHICLE", "probability": 0.87}
      }
    },
    {
      "startTime": "2024-03-02T10:00:00Z",
      "endTime": "2024-03-04T18:00:00Z",
      "timelineMemory": {
        "trip": {
          "distanceFromOriginKms": 212,
          "destinations": [
            {"identifier": {"placeId": "place-hotel"}}
          ]
        }
      }
    },
    {
      "startTime": "broken",
      "endTime": "2024-03-05T10:00:00Z",
      "visit": {"topCandidate": {"placeId": "place-x"}}
    }
  ],
  "userLocationProfile": {
    "homeAddress": [
      {"placeId": "place-home", "placeLocation": "52.5200°, 13.4050°"}
    ]
  },
  "persona": {
    "travelModeAffinities": [
      {"mode": "DRIVING", "affinity": 0.7},
      {"mode": "WALKING", "affinity": 0.2}
    ]
  }
}`

func writeImportFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(importFixture), 0o644))
	return path
}

func TestImportService_ImportsSegmentsProfileAndAffinities(t *testing.T) {
	db := newServiceDB(t)
	segmentRepo := repository.NewSegmentRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	svc := NewImportService(segmentRepo, profileRepo)

	report, err := svc.ImportFile(context.Background(), writeImportFixture(t))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Visits)
	assert.Equal(t, 1, report.Activities)
	assert.Equal(t, 0, report.Paths)
	assert.Equal(t, 1, report.Memories)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.ProfileImported)
	assert.Equal(t, 2, report.Affinities)
	assert.NotEmpty(t, report.RunID)

	segments, err := segmentRepo.ListByTimeRange(models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, models.KindVisit, segments[0].Kind)
	require.NotNil(t, segments[0].Visit)
	assert.Equal(t, "place-home", segments[0].Visit.PlaceID)
	assert.Equal(t, 60, segments[0].TimezoneOffsetMinutes)

	profile, err := profileRepo.Get()
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "place-home", profile.HomePlaceID)
	require.NotNil(t, profile.HomeLocation)
	assert.InDelta(t, 52.52, profile.HomeLocation.Lat, 0.0001)

	affinities, err := profileRepo.ListAffinities()
	require.NoError(t, err)
	assert.Len(t, affinities, 2)
}

func TestImportService_MissingFileFails(t *testing.T) {
	db := newServiceDB(t)
	svc := NewImportService(repository.NewSegmentRepository(db), repository.NewProfileRepository(db))

	_, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to parse timeline file")
}

func TestImportService_ReimportAppendsSegmentsButReplacesAffinities(t *testing.T) {
	db := newServiceDB(t)
	segmentRepo := repository.NewSegmentRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	svc := NewImportService(segmentRepo, profileRepo)
	path := writeImportFixture(t)

	_, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	_, err = svc.ImportFile(context.Background(), path)
	require.NoError(t, err)

	segments, err := segmentRepo.ListByTimeRange(models.TimeRange{})
	require.NoError(t, err)
	assert.Len(t, segments, 6)

	affinities, err := profileRepo.ListAffinities()
	require.NoError(t, err)
	assert.Len(t, affinities, 2)
}
