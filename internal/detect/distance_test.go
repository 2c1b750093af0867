package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

func TestDistanceDetector_MergesVisitsWithinThreshold(t *testing.T) {
	// 30 km between the two visits, well under the 50 km default.
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
		visitSeg(2, ts(2024, 3, 1, 12, 0), ts(2024, 3, 1, 13, 0), "place-b", models.SemanticUnknown, awayFrom(60)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, models.AlgorithmDistance, trip.DetectionAlgorithm)
	assert.Equal(t, ts(2024, 3, 1, 10, 0), trip.StartTime)
	assert.Equal(t, ts(2024, 3, 1, 13, 0), trip.EndTime)
	assert.Equal(t, []string{"place-a", "place-b"}, trip.DestinationPlaceIDs())
}

func TestDistanceDetector_SplitsVisitsBeyondThreshold(t *testing.T) {
	// Same pair of visits, but 80 km apart: two separate trips.
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
		visitSeg(2, ts(2024, 3, 1, 12, 0), ts(2024, 3, 1, 13, 0), "place-b", models.SemanticUnknown, awayFrom(110)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, []string{"place-a"}, trips[0].DestinationPlaceIDs())
	assert.Equal(t, []string{"place-b"}, trips[1].DestinationPlaceIDs())
}

func TestDistanceDetector_SplitsOnTimeGap(t *testing.T) {
	// Nearby visits separated by 72 hours exceed the 48 hour default ceiling.
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
		visitSeg(2, ts(2024, 3, 4, 11, 0), ts(2024, 3, 4, 12, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	assert.Len(t, trips, 2)
}

func TestDistanceDetector_WindowSweepsConstituents(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
		activitySeg(2, ts(2024, 3, 1, 11, 0), ts(2024, 3, 1, 11, 20), "IN_PASSENGER_VEHICLE", 5000),
		visitSeg(3, ts(2024, 3, 1, 11, 20), ts(2024, 3, 1, 11, 40), "place-home", models.SemanticHome, homePoint()),
		activitySeg(4, ts(2024, 3, 1, 11, 40), ts(2024, 3, 1, 12, 0), "WALKING", 1000),
		visitSeg(5, ts(2024, 3, 1, 12, 0), ts(2024, 3, 1, 13, 0), "place-b", models.SemanticUnknown, awayFrom(32)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, trip.SegmentIDs)
	assert.Equal(t, 6000.0, trip.TotalDistanceMeters)
	assert.Equal(t, "IN_PASSENGER_VEHICLE", trip.PrimaryTransportMode)
	// The home visit rides along as a constituent but is no destination.
	assert.Equal(t, []string{"place-a", "place-b"}, trip.DestinationPlaceIDs())
}

func TestDistanceDetector_LocationlessVisitsDoNotChain(t *testing.T) {
	// The middle visit is away by label but carries no location, so it can
	// neither extend nor close the cluster.
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
		visitSeg(2, ts(2024, 3, 1, 11, 0), ts(2024, 3, 1, 12, 0), "place-x", models.SemanticUnknown, nil),
		visitSeg(3, ts(2024, 3, 1, 12, 0), ts(2024, 3, 1, 13, 0), "place-b", models.SemanticUnknown, awayFrom(40)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	// Swept into the window, the locationless visit still contributes its
	// place id as a destination.
	assert.Equal(t, []string{"place-a", "place-x", "place-b"}, trips[0].DestinationPlaceIDs())
	assert.Equal(t, []int64{1, 2, 3}, trips[0].SegmentIDs)
}

func TestDistanceDetector_SingleAwayVisitFormsTrip(t *testing.T) {
	segs := []models.Segment{
		visitSeg(1, ts(2024, 3, 1, 10, 0), ts(2024, 3, 1, 11, 0), "place-a", models.SemanticUnknown, awayFrom(30)),
	}

	trips, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{
		Segments: segs,
		Profile:  testProfile(),
	})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, []string{"place-a"}, trips[0].DestinationPlaceIDs())
}

func TestDistanceDetector_RequiresProfile(t *testing.T) {
	_, _, err := NewDistanceDetector().Detect(context.Background(), DetectionInput{})
	assert.ErrorIs(t, err, ErrProfileRequired)
}
