package catalog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/database"
)

// integrationRepo connects to DATABASE_URL; the catalog schema is replaced by the tests.
func integrationRepo(t *testing.T) *Repository {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	repo := NewRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestRepository_ReplaceAndQuery(t *testing.T) {
	repo := integrationRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	build := testBuild()
	build.BuildID = uuid.NewString()
	err := repo.ReplaceCatalog(ctx,
		[]contracts.MovieMeta{
			meta(1, "Toy Story (1995)", "Adventure|Animation|Children|Comedy"),
			meta(3, "Grumpier Old Men (1995)", "Comedy|Romance"),
			meta(4, "Heat (1995)", "Action|Crime|Thriller"),
			meta(5, "100% Wolf (2020)", "Animation"),
		},
		[]contracts.ScoredMovie{
			scoredMovie(1, 215, 3.92, 3.72),
			scoredMovie(3, 52, 3.25, 3.50),
			scoredMovie(4, 102, 3.94, 3.55),
			scoredMovie(7, 60, 4.10, 3.60),
		},
		build,
	)
	require.NoError(t, err)

	entries, err := repo.QueryScores(ctx, contracts.ScoreQuery{})
	require.NoError(t, err)
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.MovieID
	}
	assert.Equal(t, []int64{1, 7, 4, 3}, ids)
	assert.Nil(t, entries[1].Title, "scores without metadata are kept")

	entries, err = repo.QueryScores(ctx, contracts.ScoreQuery{MinCount: 60, Genres: []string{"Comedy", "Thriller"}, Limit: 5})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].MovieID)
	assert.Equal(t, int64(4), entries[1].MovieID)

	titles, err := repo.QueryTitles(ctx, "toy", 10)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Toy Story (1995)", *titles[0].Title)

	titles, err = repo.QueryTitles(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, titles, 1, "percent sign matched literally")

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	byTable := make(map[string]int64)
	for _, c := range counts {
		byTable[c.Table] = c.Rows
	}
	assert.Equal(t, int64(4), byTable[TableMovies])
	assert.Equal(t, int64(4), byTable[TableScores])
	assert.GreaterOrEqual(t, byTable[TableBuilds], int64(1))

	_, err = repo.LatestBuild(ctx)
	require.NoError(t, err)
}

func TestRepository_FailedReplaceKeepsPrevious(t *testing.T) {
	repo := integrationRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b := testBuild()
	b.BuildID = uuid.NewString()
	require.NoError(t, repo.ReplaceCatalog(ctx,
		[]contracts.MovieMeta{meta(1, "Toy Story (1995)", "Comedy")},
		[]contracts.ScoredMovie{scoredMovie(1, 10, 4, 3.6)},
		b,
	))

	// duplicate primary key in movies aborts the whole transaction
	err := repo.ReplaceCatalog(ctx,
		[]contracts.MovieMeta{meta(2, "A", "Drama"), meta(2, "B", "Drama")},
		[]contracts.ScoredMovie{scoredMovie(2, 10, 4, 3.6)},
		testBuild(),
	)
	require.Error(t, err)

	entries, err := repo.QueryScores(ctx, contracts.ScoreQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].MovieID)
}

func TestRepository_ReplaceTablesSeparately(t *testing.T) {
	repo := integrationRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, repo.ReplaceMovies(ctx, []contracts.MovieMeta{
		meta(1, "Toy Story (1995)", "Comedy"),
		meta(2, "Jumanji (1995)", "Adventure"),
	}))
	require.NoError(t, repo.ReplaceScores(ctx, []contracts.ScoredMovie{
		scoredMovie(2, 110, 3.43, 3.50),
	}))

	// a fresh repository has no cached state and must see the table markers
	fresh := NewRepository(repo.db)
	entries, err := fresh.QueryScores(ctx, contracts.ScoreQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1, "replacement removes previous scores")
	assert.Equal(t, int64(2), entries[0].MovieID)

	var marked int
	require.NoError(t, repo.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM catalog.table_writes WHERE table_name = ANY($1)",
		[]string{TableMovies, TableScores},
	).Scan(&marked))
	assert.Equal(t, 2, marked)
}

func TestMapStoreError(t *testing.T) {
	err := mapStoreError("query", errors.New("boom"))
	assert.False(t, errors.Is(err, contracts.ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "boom")
}
