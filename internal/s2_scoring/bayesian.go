package s2_scoring

import (
	"fmt"

	"github.com/wonny/cinemood/internal/contracts"
)

// DefaultShrinkage is the default prior weight m
const DefaultShrinkage = 1000

// Scorer implements contracts.Scorer with Bayesian shrinkage toward the global mean
// ⭐ SSOT: 가중 평점 공식은 여기서만
//
//	WR = (v/(v+m))·R + (m/(v+m))·C
//	v = rating count, R = movie mean, C = unweighted mean of all movie means
type Scorer struct {
	m int
}

// NewScorer creates a Scorer with prior weight m
func NewScorer(m int) *Scorer {
	return &Scorer{m: m}
}

// M returns the configured prior weight
func (s *Scorer) M() int {
	return s.m
}

// Score computes weighted ratings and returns them with the global mean C
func (s *Scorer) Score(stats []contracts.MovieStats) ([]contracts.ScoredMovie, float64, error) {
	if s.m < 0 {
		return nil, 0, contracts.NewValidationError("scoring", "m", fmt.Sprintf("must be >= 0, got %d", s.m))
	}

	c, err := GlobalMean(stats)
	if err != nil {
		return nil, 0, err
	}

	m := float64(s.m)
	scored := make([]contracts.ScoredMovie, len(stats))
	for i, st := range stats {
		scored[i] = contracts.ScoredMovie{
			MovieStats:     st,
			WeightedRating: weighted(float64(st.RatingCount), st.AvgRating, m, c),
		}
	}

	return scored, c, nil
}

// Score computes weighted ratings with prior weight m
func Score(stats []contracts.MovieStats, m int) ([]contracts.ScoredMovie, error) {
	scored, _, err := NewScorer(m).Score(stats)
	return scored, err
}

// GlobalMean returns the unweighted mean of avgRating across stats
func GlobalMean(stats []contracts.MovieStats) (float64, error) {
	if len(stats) == 0 {
		return 0, fmt.Errorf("global mean: %w", contracts.ErrEmptyInput)
	}

	var sum float64
	for _, st := range stats {
		sum += st.AvgRating
	}
	return sum / float64(len(stats)), nil
}

func weighted(v, r, m, c float64) float64 {
	if v+m == 0 {
		return c
	}
	return (v/(v+m))*r + (m/(v+m))*c
}
