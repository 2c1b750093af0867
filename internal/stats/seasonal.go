package stats

import (
	"time"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

var seasonOrder = []string{"Winter", "Spring", "Summer", "Fall"}

// SeasonalPatterns rolls trips up by the season of their local start month.
// All four seasons are always reported, empty ones included, in calendar
// order starting with winter.
func SeasonalPatterns(trips []models.Trip) []models.SeasonStats {
	counts := make(map[string]int)
	meters := make(map[string]float64)

	for i := range trips {
		season := seasonOf(trips[i].LocalStart().Month())
		counts[season]++
		meters[season] += trips[i].TotalDistanceMeters
	}

	seasons := make([]models.SeasonStats, 0, len(seasonOrder))
	for _, season := range seasonOrder {
		s := models.SeasonStats{
			Season:          season,
			TripCount:       counts[season],
			TotalDistanceKm: meters[season] / 1000,
		}
		if s.TripCount > 0 {
			s.AvgDistanceKm = s.TotalDistanceKm / float64(s.TripCount)
		}
		seasons = append(seasons, s)
	}
	return seasons
}

func seasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}
