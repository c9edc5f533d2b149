package contracts

import "context"

// Pipeline stage interfaces
// ⭐ SSOT: 단계 간 계약은 여기서만 정의

// RatingCleaner drops malformed rating rows (S0)
type RatingCleaner interface {
	Clean(raw []RawRating) ([]RawRating, CleanReport)
}

// StatsAggregator reduces clean ratings to per-movie statistics (S1)
type StatsAggregator interface {
	Aggregate(clean []RawRating) []MovieStats
}

// Scorer converts raw averages into ranking scores (S2)
type Scorer interface {
	Score(stats []MovieStats) ([]ScoredMovie, float64, error)
}

// CleanReport counts rows removed by each cleaning step
type CleanReport struct {
	Before           int `json:"before"`
	DroppedEmpty     int `json:"dropped_empty"`
	DroppedDuplicate int `json:"dropped_duplicate"`
	DroppedMissing   int `json:"dropped_missing"`
	DroppedRange     int `json:"dropped_range"`
	After            int `json:"after"`
}

// Dropped returns the total number of rows removed
func (r CleanReport) Dropped() int {
	return r.Before - r.After
}

// ScoreQuery selects ranked catalog rows
type ScoreQuery struct {
	MinCount int64
	Genres   []string // any-of substring match; empty means no genre filter
	Limit    int
}

// CatalogWriter is consumed by the pipeline
type CatalogWriter interface {
	ReplaceMovies(ctx context.Context, rows []MovieMeta) error
	ReplaceScores(ctx context.Context, rows []ScoredMovie) error
	ReplaceCatalog(ctx context.Context, meta []MovieMeta, scored []ScoredMovie, build BuildInfo) error
}

// CatalogReader is consumed by the recommendation engine and title search
type CatalogReader interface {
	QueryScores(ctx context.Context, q ScoreQuery) ([]CatalogEntry, error)
	QueryTitles(ctx context.Context, substring string, limit int) ([]MovieMeta, error)
}

// StoreProbe reports store reachability without reading its contents
type StoreProbe interface {
	Ping(ctx context.Context) error
	Location() string
}
