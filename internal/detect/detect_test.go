package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

var homeLoc = models.LatLng{Lat: 52.5200, Lng: 13.4050}

func homePoint() *models.LatLng {
	p := homeLoc
	return &p
}

// awayFrom returns a point the given number of kilometers due north of home.
func awayFrom(km float64) *models.LatLng {
	return &models.LatLng{Lat: homeLoc.Lat + km/111.195, Lng: homeLoc.Lng}
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		HomePlaceID:  "place-home",
		HomeLocation: homePoint(),
	}
}

func ts(year, month, day, hour, min int) int64 {
	return time.Date(year, time.Month(month), day, hour, min, 0, 0, time.UTC).Unix()
}

func visitSeg(id, start, end int64, placeID, semantic string, loc *models.LatLng) models.Segment {
	return models.Segment{
		ID:        id,
		Kind:      models.KindVisit,
		StartTime: start,
		EndTime:   end,
		Visit: &models.Visit{
			SegmentID:    id,
			PlaceID:      placeID,
			SemanticType: semantic,
			Probability:  0.9,
			Location:     loc,
		},
	}
}

func activitySeg(id, start, end int64, mode string, meters float64) models.Segment {
	return models.Segment{
		ID:        id,
		Kind:      models.KindActivity,
		StartTime: start,
		EndTime:   end,
		Activity: &models.Activity{
			SegmentID:      id,
			ActivityType:   mode,
			DistanceMeters: meters,
			Probability:    0.9,
		},
	}
}

func memorySeg(id, start, end int64, distanceKm float64, placeIDs ...string) models.Segment {
	return models.Segment{
		ID:        id,
		Kind:      models.KindMemory,
		StartTime: start,
		EndTime:   end,
		Memory: &models.Memory{
			SegmentID:            id,
			DistanceFromOriginKm: distanceKm,
			DestinationPlaceIDs:  placeIDs,
		},
	}
}

func TestDetectorRegistry_AllAlgorithmsRegistered(t *testing.T) {
	for _, algorithm := range models.Algorithms {
		det := GetDetector(algorithm)
		require.NotNil(t, det, "no detector registered for %q", algorithm)
		assert.Equal(t, algorithm, det.Name())
	}
	assert.Nil(t, GetDetector("bogus"))
}

func TestValidSegments_SkipsMalformed(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 8, 0), ts(2024, 3, 1, 9, 0), "place-a", models.SemanticUnknown, awayFrom(5)),
		activitySeg(2, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 9, 30), "WALKING", 800),
	}

	stats := &DetectionStats{}
	valid := validSegments(segs, stats)

	require.Len(t, valid, 1)
	assert.Equal(t, int64(1), valid[0].ID)
	assert.Equal(t, 2, stats.SegmentsScanned)
	assert.Equal(t, 1, stats.SegmentsSkipped)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "segment 2")
}
