package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/models"
)

func newRepoDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db).RunMigrations())
	return db
}

func at(year, month, day, hour int) int64 {
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC).Unix()
}

func tripWithDest(start, end int64, destIDs ...string) models.Trip {
	trip := models.Trip{StartTime: start, EndTime: end}
	for i, id := range destIDs {
		trip.Destinations = append(trip.Destinations, models.TripDestination{PlaceID: id, VisitOrder: i})
	}
	return trip
}
