package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

func TestFrequentRoutes_MinOccurrenceThreshold(t *testing.T) {
	trips := []models.Trip{
		tripBetween(ts(2023, 6, 1, 9, 0), ts(2023, 6, 1, 17, 0), "A", "B"),
		tripBetween(ts(2023, 6, 8, 9, 0), ts(2023, 6, 8, 17, 0), "A", "B"),
		tripBetween(ts(2023, 6, 15, 9, 0), ts(2023, 6, 15, 17, 0), "A", "C"),
	}

	pairs := FrequentRoutes(trips, 2)
	require.Len(t, pairs, 1)
	assert.Equal(t, "A", pairs[0].FromPlaceID)
	assert.Equal(t, "B", pairs[0].ToPlaceID)
	assert.Equal(t, 2, pairs[0].Count)
}

func TestFrequentRoutes_PrependsOrigin(t *testing.T) {
	trip := tripBetween(ts(2023, 6, 1, 9, 0), ts(2023, 6, 1, 17, 0), "A", "B")
	trip.OriginPlaceID = "H"

	pairs := FrequentRoutes([]models.Trip{trip}, 1)
	require.Len(t, pairs, 2)
	assert.Equal(t, models.RoutePair{FromPlaceID: "A", ToPlaceID: "B", Count: 1}, pairs[0])
	assert.Equal(t, models.RoutePair{FromPlaceID: "H", ToPlaceID: "A", Count: 1}, pairs[1])
}

func TestFrequentRoutes_OrdersByCountThenPair(t *testing.T) {
	var trips []models.Trip
	addTrips := func(n int, destIDs ...string) {
		for i := 0; i < n; i++ {
			trips = append(trips, tripBetween(ts(2023, 6, 1+i, 9, 0), ts(2023, 6, 1+i, 17, 0), destIDs...))
		}
	}
	addTrips(3, "C", "D")
	addTrips(2, "B", "C")
	addTrips(2, "A", "B")

	pairs := FrequentRoutes(trips, 2)
	require.Len(t, pairs, 3)
	assert.Equal(t, models.RoutePair{FromPlaceID: "C", ToPlaceID: "D", Count: 3}, pairs[0])
	assert.Equal(t, models.RoutePair{FromPlaceID: "A", ToPlaceID: "B", Count: 2}, pairs[1])
	assert.Equal(t, models.RoutePair{FromPlaceID: "B", ToPlaceID: "C", Count: 2}, pairs[2])
}

func TestFrequentRoutes_SingleStopMakesNoPairs(t *testing.T) {
	trips := []models.Trip{
		tripBetween(ts(2023, 6, 1, 9, 0), ts(2023, 6, 1, 17, 0), "A"),
	}
	assert.Empty(t, FrequentRoutes(trips, 1))
}
