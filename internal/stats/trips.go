package stats

import (
	"sort"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// Overview summarizes a trip set: kilometre and hour totals with their
// means, split by the multi-day flag.
func Overview(trips []models.Trip) models.OverviewStats {
	if len(trips) == 0 {
		return models.OverviewStats{}
	}

	distances := make([]float64, len(trips))
	durations := make([]float64, len(trips))
	multiDay := 0
	for i := range trips {
		distances[i] = trips[i].TotalDistanceMeters / 1000
		durations[i] = float64(trips[i].DurationSeconds()) / 3600
		if trips[i].IsMultiDay {
			multiDay++
		}
	}

	return models.OverviewStats{
		TotalTrips:       len(trips),
		TotalDistanceKm:  Sum(distances),
		TotalDurationHrs: Sum(durations),
		AvgDistanceKm:    Mean(distances),
		AvgDurationHrs:   Mean(durations),
		MultiDayTrips:    multiDay,
		SingleDayTrips:   len(trips) - multiDay,
	}
}

// TransportModes breaks trips down by primary transport mode. Trips without
// a recorded mode are left out.
func TransportModes(trips []models.Trip) []models.TransportModeStats {
	type agg struct {
		count   int
		totalKm float64
	}
	byMode := make(map[string]*agg)
	for i := range trips {
		mode := trips[i].PrimaryTransportMode
		if mode == "" {
			continue
		}
		a, ok := byMode[mode]
		if !ok {
			a = &agg{}
			byMode[mode] = a
		}
		a.count++
		a.totalKm += trips[i].TotalDistanceMeters / 1000
	}

	modes := make([]models.TransportModeStats, 0, len(byMode))
	for mode, a := range byMode {
		modes = append(modes, models.TransportModeStats{
			Mode:            mode,
			TripCount:       a.count,
			TotalDistanceKm: a.totalKm,
			AvgDistanceKm:   a.totalKm / float64(a.count),
		})
	}
	sort.Slice(modes, func(i, j int) bool {
		if modes[i].TripCount != modes[j].TripCount {
			return modes[i].TripCount > modes[j].TripCount
		}
		return modes[i].Mode < modes[j].Mode
	})
	return modes
}

// TopDestinations ranks destination places by how many trips stop there,
// decorating each entry with the cached place record when one exists.
func TopDestinations(trips []models.Trip, places map[string]*models.Place, limit int) []models.TopDestination {
	if limit < 1 {
		limit = 20
	}

	counts := make(map[string]int)
	for i := range trips {
		for _, dest := range trips[i].Destinations {
			counts[dest.PlaceID]++
		}
	}

	ranked := make([]models.TopDestination, 0, len(counts))
	for placeID, count := range counts {
		dest := models.TopDestination{PlaceID: placeID, TripCount: count}
		if place := places[placeID]; place != nil {
			dest.Name = place.Name
			dest.Address = place.FormattedAddress
			dest.Rating = place.Rating
		}
		ranked = append(ranked, dest)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TripCount != ranked[j].TripCount {
			return ranked[i].TripCount > ranked[j].TripCount
		}
		return ranked[i].PlaceID < ranked[j].PlaceID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// LongestTrips returns the limit longest trips ordered by "distance"
// (default) or "duration". The input slice is left untouched.
func LongestTrips(trips []models.Trip, limit int, by string) []models.Trip {
	if limit < 1 {
		limit = 10
	}

	sorted := make([]models.Trip, len(trips))
	copy(sorted, trips)

	if by == "duration" {
		sort.Slice(sorted, func(i, j int) bool {
			di, dj := sorted[i].DurationSeconds(), sorted[j].DurationSeconds()
			if di != dj {
				return di > dj
			}
			return sorted[i].StartTime < sorted[j].StartTime
		})
	} else {
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].TotalDistanceMeters != sorted[j].TotalDistanceMeters {
				return sorted[i].TotalDistanceMeters > sorted[j].TotalDistanceMeters
			}
			return sorted[i].StartTime < sorted[j].StartTime
		})
	}

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
