package stats

import (
	"sort"
	"time"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// PeakTimes builds hour-of-day and day-of-week histograms from the local
// start times of visit and activity segments and keeps the topN buckets of
// each. topN < 1 keeps every non-empty bucket.
func PeakTimes(segments []models.Segment, topN int) models.PeakTimes {
	hourCounts := make(map[int]int)
	weekdayCounts := make(map[time.Weekday]int)

	for i := range segments {
		seg := &segments[i]
		if seg.Kind != models.KindVisit && seg.Kind != models.KindActivity {
			continue
		}
		start := seg.LocalStart()
		hourCounts[start.Hour()]++
		weekdayCounts[start.Weekday()]++
	}

	hours := make([]models.HourBucket, 0, len(hourCounts))
	for hour, count := range hourCounts {
		hours = append(hours, models.HourBucket{Hour: hour, Count: count})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})

	type weekdayCount struct {
		day   time.Weekday
		count int
	}
	days := make([]weekdayCount, 0, len(weekdayCounts))
	for day, count := range weekdayCounts {
		days = append(days, weekdayCount{day: day, count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].count != days[j].count {
			return days[i].count > days[j].count
		}
		return days[i].day < days[j].day
	})

	weekdays := make([]models.WeekdayBucket, 0, len(days))
	for _, d := range days {
		weekdays = append(weekdays, models.WeekdayBucket{
			Weekday: d.day.String(),
			Count:   d.count,
		})
	}

	if topN >= 1 {
		if len(hours) > topN {
			hours = hours[:topN]
		}
		if len(weekdays) > topN {
			weekdays = weekdays[:topN]
		}
	}
	return models.PeakTimes{Hours: hours, Weekdays: weekdays}
}
