// backend/services/rank_service.go
package services

import "github.com/gewnthar/flightops/backend/models"

// ComputeRank returns the id of the highest rank whose hours threshold the
// given cumulative flight hours meet. ranks must be ordered by ascending
// threshold (database.GetRanks guarantees this). Returns false when no rank
// qualifies — e.g. an empty ranks table — in which case the caller leaves
// the pilot's rank alone.
func ComputeRank(ranks []models.Rank, flightHours float64) (int64, bool) {
	var best int64
	found := false
	for _, r := range ranks {
		if r.HoursThreshold <= flightHours {
			best = r.ID
			found = true
		}
	}
	return best, found
}
