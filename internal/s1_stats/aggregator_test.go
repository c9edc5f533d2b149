package s1_stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
)

func TestAggregate_Scenario(t *testing.T) {
	clean := []contracts.RawRating{
		contracts.NewRating(1, 2, 4.0),
		contracts.NewRating(1, 1, 5.0),
		contracts.NewRating(2, 1, 5.0),
		contracts.NewRating(3, 2, 1.0),
		contracts.NewRating(2, 3, 3.5),
	}

	stats := Aggregate(clean)

	require.Len(t, stats, 3)
	assert.Equal(t, contracts.MovieStats{MovieID: 1, RatingCount: 2, AvgRating: 5.0}, stats[0])
	assert.Equal(t, contracts.MovieStats{MovieID: 2, RatingCount: 2, AvgRating: 2.5}, stats[1])
	assert.Equal(t, contracts.MovieStats{MovieID: 3, RatingCount: 1, AvgRating: 3.5}, stats[2])
}

func TestAggregate_Coverage(t *testing.T) {
	clean := make([]contracts.RawRating, 0, 300)
	for u := int64(1); u <= 30; u++ {
		for m := int64(1); m <= 10; m++ {
			if (u+m)%3 == 0 {
				continue
			}
			clean = append(clean, contracts.NewRating(u, m*7, float64((u+m)%10)/2+0.5))
		}
	}

	stats := Aggregate(clean)

	distinct := make(map[int64]struct{})
	for _, r := range clean {
		distinct[*r.MovieID] = struct{}{}
	}
	assert.Len(t, stats, len(distinct), "one entry per distinct movie")

	var total int64
	for i, s := range stats {
		total += s.RatingCount
		assert.Greater(t, s.RatingCount, int64(0))
		assert.GreaterOrEqual(t, s.AvgRating, contracts.MinRating)
		assert.LessOrEqual(t, s.AvgRating, contracts.MaxRating)
		if i > 0 {
			assert.Less(t, stats[i-1].MovieID, s.MovieID, "ordered by movieId")
		}
	}
	assert.Equal(t, int64(len(clean)), total, "every row counted exactly once")
}

func TestAggregate_SkipsIncomplete(t *testing.T) {
	incomplete := contracts.NewRating(1, 5, 3.0)
	incomplete.Rating = nil

	stats := NewAggregator().Aggregate([]contracts.RawRating{
		contracts.NewRating(1, 5, 4.0),
		incomplete,
	})

	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].RatingCount)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
