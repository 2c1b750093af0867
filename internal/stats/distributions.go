package stats

import (
	"math"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// bucketSpec labels a histogram bucket by its exclusive upper bound.
type bucketSpec struct {
	label string
	below float64
}

var durationBuckets = []bucketSpec{
	{"< 4 hours", 4},
	{"4-8 hours", 8},
	{"8-24 hours", 24},
	{"1-3 days", 72},
	{"3-7 days", 168},
	{"1-2 weeks", 336},
	{"2+ weeks", math.Inf(1)},
}

var distanceBuckets = []bucketSpec{
	{"< 50 km", 50},
	{"50-100 km", 100},
	{"100-250 km", 250},
	{"250-500 km", 500},
	{"500-1000 km", 1000},
	{"1000-2500 km", 2500},
	{"2500+ km", math.Inf(1)},
}

// Distributions histograms trips by duration in hours and total distance in
// kilometers. Every bucket is reported, empty ones included.
func Distributions(trips []models.Trip) models.TripDistributions {
	duration := emptyBuckets(durationBuckets)
	distance := emptyBuckets(distanceBuckets)

	for i := range trips {
		trip := &trips[i]
		countInto(duration, durationBuckets, float64(trip.DurationSeconds())/3600)
		countInto(distance, distanceBuckets, trip.TotalDistanceMeters/1000)
	}

	return models.TripDistributions{Duration: duration, Distance: distance}
}

func emptyBuckets(specs []bucketSpec) []models.DistributionBucket {
	buckets := make([]models.DistributionBucket, len(specs))
	for i, spec := range specs {
		buckets[i].Range = spec.label
	}
	return buckets
}

func countInto(buckets []models.DistributionBucket, specs []bucketSpec, v float64) {
	for i := range specs {
		if v < specs[i].below {
			buckets[i].Count++
			return
		}
	}
}
