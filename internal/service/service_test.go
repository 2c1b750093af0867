package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jengzang/timeline-backend-go/internal/config"
	"github.com/jengzang/timeline-backend-go/internal/database"
	"github.com/jengzang/timeline-backend-go/internal/metrics"
	"github.com/jengzang/timeline-backend-go/internal/models"
)

var testHome = models.LatLng{Lat: 52.5200, Lng: 13.4050}

func newServiceDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db).RunMigrations())
	return db
}

func testCollector() *metrics.Collector {
	metrics.ResetForTesting()
	return metrics.NewCollector("test")
}

func detectionConfig() *config.Config {
	return &config.Config{
		HomeRadiusMeters:      1000,
		ClusterDistanceMeters: 50000,
		ClusterTimeGapHours:   48,
	}
}

func unix(year, month, day, hour, min int) int64 {
	return time.Date(year, time.Month(month), day, hour, min, 0, 0, time.UTC).Unix()
}

func homePoint() *models.LatLng {
	p := testHome
	return &p
}

// northOf returns a point the given number of kilometers due north of home.
func northOf(km float64) *models.LatLng {
	return &models.LatLng{Lat: testHome.Lat + km/111.195, Lng: testHome.Lng}
}

func visitAt(start, end int64, placeID, semantic string, loc *models.LatLng) models.Segment {
	return models.Segment{
		Kind:      models.KindVisit,
		StartTime: start,
		EndTime:   end,
		Visit: &models.Visit{
			PlaceID:      placeID,
			SemanticType: semantic,
			Probability:  0.9,
			Location:     loc,
		},
	}
}

func activityAt(start, end int64, mode string, meters float64) models.Segment {
	return models.Segment{
		Kind:      models.KindActivity,
		StartTime: start,
		EndTime:   end,
		Activity: &models.Activity{
			ActivityType:   mode,
			Probability:    0.8,
			DistanceMeters: meters,
		},
	}
}

func memoryAt(start, end int64, km float64, placeIDs ...string) models.Segment {
	return models.Segment{
		Kind:      models.KindMemory,
		StartTime: start,
		EndTime:   end,
		Memory: &models.Memory{
			DistanceFromOriginKm: km,
			DestinationPlaceIDs:  placeIDs,
		},
	}
}
