package stats

import (
	"sort"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// YearlyRollups groups segments and trips by the calendar year of their
// local start time. Segment durations sum over every segment kind; activity
// distance sums over activity segments; distinct places count unique visit
// place ids seen in the year.
func YearlyRollups(segments []models.Segment, trips []models.Trip) []models.YearlyStats {
	type bucket struct {
		stats  models.YearlyStats
		places map[string]struct{}
	}
	buckets := make(map[int]*bucket)
	get := func(year int) *bucket {
		b, ok := buckets[year]
		if !ok {
			b = &bucket{
				stats:  models.YearlyStats{Year: year},
				places: make(map[string]struct{}),
			}
			buckets[year] = b
		}
		return b
	}

	for i := range segments {
		seg := &segments[i]
		b := get(seg.LocalStart().Year())
		b.stats.SegmentDurationSeconds += seg.DurationSeconds()
		if seg.Kind == models.KindActivity && seg.Activity != nil {
			b.stats.ActivityDistanceMeters += seg.Activity.DistanceMeters
		}
		if seg.Kind == models.KindVisit && seg.Visit != nil && seg.Visit.PlaceID != "" {
			b.places[seg.Visit.PlaceID] = struct{}{}
		}
	}
	for i := range trips {
		get(trips[i].LocalStart().Year()).stats.TripCount++
	}

	years := make([]models.YearlyStats, 0, len(buckets))
	for _, b := range buckets {
		b.stats.DistinctPlaces = len(b.places)
		years = append(years, b.stats)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}

// MonthlyRollups is the per-month version of YearlyRollups, restricted to
// one calendar year.
func MonthlyRollups(segments []models.Segment, trips []models.Trip, year int) []models.MonthlyStats {
	type bucket struct {
		stats  models.MonthlyStats
		places map[string]struct{}
	}
	buckets := make(map[int]*bucket)
	get := func(month int) *bucket {
		b, ok := buckets[month]
		if !ok {
			b = &bucket{
				stats:  models.MonthlyStats{Year: year, Month: month},
				places: make(map[string]struct{}),
			}
			buckets[month] = b
		}
		return b
	}

	for i := range segments {
		seg := &segments[i]
		start := seg.LocalStart()
		if start.Year() != year {
			continue
		}
		b := get(int(start.Month()))
		b.stats.SegmentDurationSeconds += seg.DurationSeconds()
		if seg.Kind == models.KindActivity && seg.Activity != nil {
			b.stats.ActivityDistanceMeters += seg.Activity.DistanceMeters
		}
		if seg.Kind == models.KindVisit && seg.Visit != nil && seg.Visit.PlaceID != "" {
			b.places[seg.Visit.PlaceID] = struct{}{}
		}
	}
	for i := range trips {
		start := trips[i].LocalStart()
		if start.Year() != year {
			continue
		}
		get(int(start.Month())).stats.TripCount++
	}

	months := make([]models.MonthlyStats, 0, len(buckets))
	for _, b := range buckets {
		b.stats.DistinctPlaces = len(b.places)
		months = append(months, b.stats)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}
