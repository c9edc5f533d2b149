package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/logger"
)

// Request defaults used by the HTTP layer
const (
	DefaultMood     = "calm"
	DefaultK        = 20
	DefaultMinCount = 50
	DefaultLimit    = 20
)

// Request is one recommendation request
type Request struct {
	Mood     string
	K        int
	MinCount int64
}

// Item is one recommended movie
type Item struct {
	MovieID        int64   `json:"movieId"`
	Title          *string `json:"title"`
	Genres         *string `json:"genres"`
	RatingCount    int64   `json:"rating_count"`
	AvgRating      float64 `json:"avg_rating"`
	WeightedRating float64 `json:"weighted_rating"`
}

// Recommendation is the answer to a Request.
// Mood is the normalized mood; GenresFilter is empty for unknown moods.
type Recommendation struct {
	Mood         string   `json:"mood"`
	GenresFilter []string `json:"genres_filter"`
	K            int      `json:"k"`
	MinCount     int64    `json:"min_count"`
	Items        []Item   `json:"items"`
}

// Recommender is the read-side API consumed by the HTTP handlers
type Recommender interface {
	Recommend(ctx context.Context, req Request) (*Recommendation, error)
	Search(ctx context.Context, query string, limit int) ([]contracts.MovieMeta, error)
	Moods() *MoodTable
}

// Engine ranks catalog entries for a mood
// ⭐ SSOT: 추천 규칙은 여기서만 (stateless, 동시 호출 안전)
type Engine struct {
	reader contracts.CatalogReader
	moods  *MoodTable
	logger *logger.Logger
}

// NewEngine creates a new Engine
func NewEngine(reader contracts.CatalogReader, moods *MoodTable, log *logger.Logger) *Engine {
	if moods == nil {
		moods = DefaultMoodTable()
	}
	return &Engine{
		reader: reader,
		moods:  moods,
		logger: log.WithComponent("recommend"),
	}
}

// Moods returns the mood table in use
func (e *Engine) Moods() *MoodTable {
	return e.moods
}

// Recommend returns up to K scored movies matching the mood,
// ordered by weighted rating desc then movieId asc
func (e *Engine) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	if req.K < 1 {
		return nil, contracts.NewValidationError("recommendations", "k", "must be >= 1")
	}
	if req.MinCount < 0 {
		return nil, contracts.NewValidationError("recommendations", "min_count", "must be >= 0")
	}

	mood, genres, known := e.moods.Resolve(req.Mood)

	entries, err := e.reader.QueryScores(ctx, contracts.ScoreQuery{
		MinCount: req.MinCount,
		Genres:   genres,
		Limit:    req.K,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend %q: %w", mood, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if !entry.HasScore() {
			continue
		}
		items = append(items, toItem(entry))
		if len(items) == req.K {
			break
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"mood":      mood,
		"known":     known,
		"k":         req.K,
		"min_count": req.MinCount,
		"items":     len(items),
	}).Debug("Recommendation served")

	return &Recommendation{
		Mood:         mood,
		GenresFilter: genres,
		K:            req.K,
		MinCount:     req.MinCount,
		Items:        items,
	}, nil
}

// Search returns movies whose title contains the trimmed query, case-insensitively
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]contracts.MovieMeta, error) {
	if limit < 1 {
		return nil, contracts.NewValidationError("titles", "limit", "must be >= 1")
	}

	movies, err := e.reader.QueryTitles(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	return movies, nil
}

func toItem(e contracts.CatalogEntry) Item {
	return Item{
		MovieID:        e.MovieID,
		Title:          e.Title,
		Genres:         e.Genres,
		RatingCount:    e.Score.RatingCount,
		AvgRating:      e.Score.AvgRating,
		WeightedRating: e.Score.WeightedRating,
	}
}
