package catalog

import (
	"context"

	"github.com/wonny/cinemood/internal/contracts"
)

// Table names in the catalog schema
const (
	TableMovies = "movies"
	TableScores = "movie_scores"
	TableBuilds = "builds"
)

// TableCount is one line of the catalog check output
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Store is everything the pipeline, API and CLI need from a catalog backend.
// Implemented by Repository (PostgreSQL) and MemoryStore.
type Store interface {
	contracts.CatalogWriter
	contracts.CatalogReader
	contracts.StoreProbe

	Counts(ctx context.Context) ([]TableCount, error)
	LatestBuild(ctx context.Context) (*contracts.BuildInfo, error)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
)
