package quality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
)

func title(s string) *string { return &s }

func scoredEntries() []contracts.CatalogEntry {
	score := &contracts.ScoredMovie{MovieStats: contracts.MovieStats{MovieID: 1, RatingCount: 2, AvgRating: 4}}
	return []contracts.CatalogEntry{
		{MovieID: 1, Title: title("Toy Story (1995)"), Score: score},
		{MovieID: 2, Title: title("Jumanji (1995)"), Score: score},
		{MovieID: 3, Score: score},
		{MovieID: 4, Title: title("Heat (1995)"), Score: score},
	}
}

func TestGate_Check(t *testing.T) {
	gate := NewGate(DefaultConfig())

	snapshot, err := gate.Check(contracts.CleanReport{Before: 100, After: 80}, scoredEntries())
	require.NoError(t, err)

	assert.Equal(t, 100, snapshot.RawRatings)
	assert.Equal(t, 80, snapshot.CleanRatings)
	assert.InDelta(t, 0.80, snapshot.Retention, 1e-12)
	assert.InDelta(t, 0.75, snapshot.MetadataCoverage, 1e-12)
	assert.InDelta(t, 0.80*0.70+0.75*0.30, snapshot.QualityScore, 1e-12)
	assert.True(t, snapshot.Passed)
	assert.True(t, snapshot.IsValid())
}

func TestGate_Check_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		field  string
	}{
		{"retention too low", Config{MinRetention: 0.9}, "retention"},
		{"coverage too low", Config{MinMetadataCoverage: 0.9}, "coverage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := NewGate(tt.config).Check(contracts.CleanReport{Before: 100, After: 80}, scoredEntries())
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrValidation))

			var verr *contracts.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)

			require.NotNil(t, snapshot)
			assert.False(t, snapshot.Passed)
		})
	}
}

func TestGate_Check_EmptyReport(t *testing.T) {
	snapshot, err := NewGate(DefaultConfig()).Check(contracts.CleanReport{}, nil)
	require.NoError(t, err)
	assert.Zero(t, snapshot.Retention)
	assert.Zero(t, snapshot.QualityScore)
	assert.False(t, snapshot.IsValid(), "nothing to score")
}

func TestGate_calculateScore(t *testing.T) {
	gate := &Gate{config: Config{}}

	tests := []struct {
		name     string
		coverage map[string]float64
		wantMin  float64
		wantMax  float64
	}{
		{"perfect", map[string]float64{"retention": 1, "metadata": 1}, 0.99, 1.01},
		{"good", map[string]float64{"retention": 0.95, "metadata": 0.90}, 0.90, 0.95},
		{"poor", map[string]float64{"retention": 0.40, "metadata": 0.50}, 0.40, 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := gate.calculateScore(tt.coverage)
			assert.GreaterOrEqual(t, score, tt.wantMin)
			assert.LessOrEqual(t, score, tt.wantMax)
		})
	}
}
