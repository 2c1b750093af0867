package stats

import (
	"sort"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// FrequentRoutes counts ordered (from, to) place pairs across trips. Each
// trip contributes the consecutive pairs of its destination sequence, with
// the origin place prepended when the trip has one. Pairs occurring at
// least minOccurrences times are returned, most frequent first; ties order
// lexicographically by (from, to).
func FrequentRoutes(trips []models.Trip, minOccurrences int) []models.RoutePair {
	if minOccurrences < 1 {
		minOccurrences = 1
	}

	counts := make(map[[2]string]int)
	for i := range trips {
		trip := &trips[i]
		seq := make([]string, 0, len(trip.Destinations)+1)
		if trip.OriginPlaceID != "" {
			seq = append(seq, trip.OriginPlaceID)
		}
		seq = append(seq, trip.DestinationPlaceIDs()...)
		for j := 0; j+1 < len(seq); j++ {
			counts[[2]string{seq[j], seq[j+1]}]++
		}
	}

	pairs := make([]models.RoutePair, 0, len(counts))
	for key, count := range counts {
		if count >= minOccurrences {
			pairs = append(pairs, models.RoutePair{
				FromPlaceID: key[0],
				ToPlaceID:   key[1],
				Count:       count,
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].FromPlaceID != pairs[j].FromPlaceID {
			return pairs[i].FromPlaceID < pairs[j].FromPlaceID
		}
		return pairs[i].ToPlaceID < pairs[j].ToPlaceID
	})
	return pairs
}
