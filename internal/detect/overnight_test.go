package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

func TestOvernightDetector_MultiDayAwayVisit(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 18, 0), ts(2024, 3, 1, 20, 0), "place-home", models.SemanticHome, homePoint()),
		activitySeg(2, ts(2024, 3, 1, 20, 0), ts(2024, 3, 1, 22, 0), "IN_PASSENGER_VEHICLE", 30000),
		visitSeg(3, ts(2024, 3, 1, 22, 0), ts(2024, 3, 2, 9, 0), "place-hotel", models.SemanticUnknown, awayFrom(30)),
		activitySeg(4, ts(2024, 3, 2, 9, 0), ts(2024, 3, 2, 11, 0), "IN_PASSENGER_VEHICLE", 30000),
		visitSeg(5, ts(2024, 3, 2, 11, 0), ts(2024, 3, 2, 13, 0), "place-home", models.SemanticHome, homePoint()),
	}

	trips, stats, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, 0, stats.SegmentsSkipped)

	trip := trips[0]
	assert.Equal(t, models.AlgorithmOvernight, trip.DetectionAlgorithm)
	assert.True(t, trip.IsMultiDay)
	assert.Equal(t, ts(2024, 3, 1, 20, 0), trip.StartTime)
	assert.Equal(t, ts(2024, 3, 2, 11, 0), trip.EndTime)
	assert.Equal(t, []int64{2, 3, 4}, trip.SegmentIDs)
	assert.Equal(t, []string{"place-hotel"}, trip.DestinationPlaceIDs())
	assert.Equal(t, 60000.0, trip.TotalDistanceMeters)
}

func TestOvernightDetector_IgnoresSameDayAwayVisits(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 8, 0), ts(2024, 3, 1, 9, 0), "place-home", models.SemanticHome, homePoint()),
		visitSeg(2, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 15, 0), "place-cafe", models.SemanticUnknown, awayFrom(5)),
		visitSeg(3, ts(2024, 3, 1, 16, 0), ts(2024, 3, 1, 22, 0), "place-home", models.SemanticHome, homePoint()),
	}

	trips, _, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestOvernightDetector_OneTripPerMaximalAwayRun(t *testing.T) {
	// Two overnight stays with no intervening home visit collapse into one trip.
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 18, 0), ts(2024, 3, 1, 20, 0), "place-home", models.SemanticHome, homePoint()),
		visitSeg(2, ts(2024, 3, 1, 22, 0), ts(2024, 3, 2, 9, 0), "place-hotel-a", models.SemanticUnknown, awayFrom(20)),
		activitySeg(3, ts(2024, 3, 2, 9, 0), ts(2024, 3, 2, 12, 0), "IN_TRAIN", 150000),
		visitSeg(4, ts(2024, 3, 2, 21, 0), ts(2024, 3, 3, 8, 0), "place-hotel-b", models.SemanticUnknown, awayFrom(150)),
		visitSeg(5, ts(2024, 3, 3, 14, 0), ts(2024, 3, 3, 20, 0), "place-home", models.SemanticHome, homePoint()),
	}

	trips, _, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, []int64{2, 3, 4}, trips[0].SegmentIDs)
	assert.Equal(t, []string{"place-hotel-a", "place-hotel-b"}, trips[0].DestinationPlaceIDs())
}

func TestOvernightDetector_RunReachesStreamEnd(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 18, 0), ts(2024, 3, 1, 20, 0), "place-home", models.SemanticHome, homePoint()),
		activitySeg(2, ts(2024, 3, 1, 20, 0), ts(2024, 3, 1, 22, 0), "IN_PASSENGER_VEHICLE", 25000),
		visitSeg(3, ts(2024, 3, 1, 22, 0), ts(2024, 3, 2, 9, 0), "place-hotel", models.SemanticUnknown, awayFrom(25)),
	}

	trips, _, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, []int64{2, 3}, trips[0].SegmentIDs)
	assert.True(t, trips[0].IsMultiDay)
}

func TestOvernightDetector_UsesLocalDayBoundary(t *testing.T) {
	// 21:00-23:00 UTC stays within one UTC day but crosses midnight at UTC+2.
	away := visitSeg(2, ts(2024, 3, 1, 21, 0), ts(2024, 3, 1, 23, 0), "place-hotel", models.SemanticUnknown, awayFrom(15))
	away.TimezoneOffsetMinutes = 120

	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 18, 0), ts(2024, 3, 1, 20, 0), "place-home", models.SemanticHome, homePoint()),
		away,
		visitSeg(3, ts(2024, 3, 2, 1, 0), ts(2024, 3, 2, 6, 0), "place-home", models.SemanticHome, homePoint()),
	}

	trips, _, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.True(t, trips[0].IsMultiDay)
}

func TestOvernightDetector_RequiresProfile(t *testing.T) {
	_, _, err := NewOvernightDetector().Detect(context.Background(), DetectionInput{})
	assert.ErrorIs(t, err, ErrProfileRequired)
}
