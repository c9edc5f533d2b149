package handlers

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/recommend"
)

func TestParseRecommendParams_Defaults(t *testing.T) {
	p, err := ParseRecommendParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, RecommendParams{
		Mood:     recommend.DefaultMood,
		K:        recommend.DefaultK,
		MinCount: recommend.DefaultMinCount,
	}, p)
}

func TestParseRecommendParams(t *testing.T) {
	p, err := ParseRecommendParams(url.Values{"mood": {"Fun "}, "k": {" 5 "}, "min_count": {"0"}})
	require.NoError(t, err)
	assert.Equal(t, "Fun ", p.Mood, "mood is normalized by the engine, not here")
	assert.Equal(t, 5, p.K)
	assert.Equal(t, int64(0), p.MinCount)
}

func TestParseRecommendParams_LargeK(t *testing.T) {
	p, err := ParseRecommendParams(url.Values{"k": {"500"}, "min_count": {"0"}})
	require.NoError(t, err)
	assert.Equal(t, 500, p.K)
}

func TestParseRecommendParams_BlankMood(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"missing", url.Values{}},
		{"empty", url.Values{"mood": {""}}},
		{"spaces", url.Values{"mood": {" "}}},
		{"tab and newline", url.Values{"mood": {"\t\n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseRecommendParams(tt.values)
			require.NoError(t, err)
			assert.Equal(t, recommend.DefaultMood, p.Mood)
		})
	}
}

func TestParseRecommendParams_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
		reason string
	}{
		{"k zero", url.Values{"k": {"0"}}, "k", "must be >= 1"},
		{"k not a number", url.Values{"k": {"ten"}}, "k", "must be an integer"},
		{"negative min_count", url.Values{"min_count": {"-1"}}, "min_count", "must be >= 0"},
		{"mood too long", url.Values{"mood": {strings.Repeat("x", 81)}}, "mood", "must be at most 80 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecommendParams(tt.values)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrValidation))

			var verr *contracts.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestParseTitlesParams(t *testing.T) {
	p, err := ParseTitlesParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, TitlesParams{Query: "", Limit: recommend.DefaultLimit}, p)

	p, err = ParseTitlesParams(url.Values{"query": {strings.Repeat("a", MaxQueryLength)}, "limit": {"5000"}})
	require.NoError(t, err)
	assert.Equal(t, 5000, p.Limit)

	_, err = ParseTitlesParams(url.Values{"query": {strings.Repeat("a", MaxQueryLength+1)}})
	var verr *contracts.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "query", verr.Field)

	_, err = ParseTitlesParams(url.Values{"limit": {"0"}})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "limit", verr.Field)
}
