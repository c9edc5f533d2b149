package s1_stats

import (
	"sort"

	"github.com/wonny/cinemood/internal/contracts"
)

// Aggregator implements contracts.StatsAggregator
// ⭐ SSOT: 영화별 평점 수/평균 집계는 여기서만
type Aggregator struct{}

// NewAggregator creates a new Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

type accumulator struct {
	count int64
	sum   float64
}

// Aggregate groups clean ratings by movieId.
// Result is ordered by movieId ascending; incomplete rows are ignored.
func (a *Aggregator) Aggregate(clean []contracts.RawRating) []contracts.MovieStats {
	acc := make(map[int64]*accumulator)

	for _, r := range clean {
		if !r.IsComplete() {
			continue
		}
		id := *r.MovieID
		m, ok := acc[id]
		if !ok {
			m = &accumulator{}
			acc[id] = m
		}
		m.count++
		m.sum += *r.Rating
	}

	stats := make([]contracts.MovieStats, 0, len(acc))
	for id, m := range acc {
		stats = append(stats, contracts.MovieStats{
			MovieID:     id,
			RatingCount: m.count,
			AvgRating:   m.sum / float64(m.count),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].MovieID < stats[j].MovieID
	})

	return stats
}

// Aggregate is a convenience wrapper around Aggregator.Aggregate
func Aggregate(clean []contracts.RawRating) []contracts.MovieStats {
	return NewAggregator().Aggregate(clean)
}
