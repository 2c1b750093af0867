package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/timeline-backend-go/internal/models"
	"github.com/jengzang/timeline-backend-go/internal/repository"
)

func TestTripService_GetTripsPaginates(t *testing.T) {
	db := newServiceDB(t)
	tripRepo := repository.NewTripRepository(db)
	require.NoError(t, tripRepo.ReplaceTrips(models.AlgorithmHome, models.TimeRange{}, []models.Trip{
		statsTrip(unix(2024, 3, 1, 9, 0), unix(2024, 3, 1, 11, 0), "place-home", "WALKING", 3000, false, "place-a"),
		statsTrip(unix(2024, 3, 2, 9, 0), unix(2024, 3, 2, 11, 0), "place-home", "WALKING", 3000, false, "place-a"),
		statsTrip(unix(2024, 3, 3, 9, 0), unix(2024, 3, 3, 11, 0), "place-home", "WALKING", 3000, false, "place-b"),
	}))
	svc := NewTripService(tripRepo)

	resp, err := svc.GetTrips(models.TripFilter{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)

	resp, err = svc.GetTrips(models.TripFilter{})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.PageSize)
	assert.Len(t, resp.Data, 3)

	_, err = svc.GetTrips(models.TripFilter{Algorithm: "teleport"})
	assert.ErrorContains(t, err, "invalid detection algorithm")
}

func TestTripService_GetTripByID(t *testing.T) {
	db := newServiceDB(t)
	tripRepo := repository.NewTripRepository(db)
	trips := []models.Trip{
		statsTrip(unix(2024, 3, 1, 9, 0), unix(2024, 3, 1, 11, 0), "place-home", "WALKING", 3000, false, "place-a"),
	}
	require.NoError(t, tripRepo.ReplaceTrips(models.AlgorithmHome, models.TimeRange{}, trips))
	svc := NewTripService(tripRepo)

	trip, err := svc.GetTripByID(trips[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"place-a"}, trip.DestinationPlaceIDs())

	_, err = svc.GetTripByID(9999)
	assert.ErrorContains(t, err, "trip not found")
}
