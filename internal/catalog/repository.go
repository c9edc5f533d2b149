package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/database"
)

const schema = "catalog"

// undefined_table
const pgUndefinedTable = "42P01"

var schemaDDL = []string{
	`CREATE SCHEMA IF NOT EXISTS catalog`,
	`CREATE TABLE IF NOT EXISTS catalog.movies (
		movie_id BIGINT PRIMARY KEY,
		title    TEXT,
		genres   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS catalog.movie_scores (
		movie_id        BIGINT PRIMARY KEY,
		rating_count    BIGINT NOT NULL,
		avg_rating      DOUBLE PRECISION NOT NULL,
		weighted_rating DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS movie_scores_rank_idx
		ON catalog.movie_scores (weighted_rating DESC, movie_id ASC)`,
	`CREATE TABLE IF NOT EXISTS catalog.builds (
		build_id          UUID PRIMARY KEY,
		started_at        TIMESTAMPTZ NOT NULL,
		finished_at       TIMESTAMPTZ NOT NULL,
		raw_ratings       INTEGER NOT NULL,
		clean_ratings     INTEGER NOT NULL,
		movies            INTEGER NOT NULL,
		scored            INTEGER NOT NULL,
		shrinkage_m       INTEGER NOT NULL,
		global_mean       DOUBLE PRECISION NOT NULL,
		retention         DOUBLE PRECISION NOT NULL,
		metadata_coverage DOUBLE PRECISION NOT NULL,
		quality_score     DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog.table_writes (
		table_name TEXT PRIMARY KEY,
		written_at TIMESTAMPTZ NOT NULL
	)`,
}

// Repository is the PostgreSQL catalog store
// ⭐ SSOT: 카탈로그 저장/조회는 여기서만
type Repository struct {
	pool  *pgxpool.Pool
	db    *database.DB
	built atomic.Bool // built 상태를 한 번 확인하면 캐시
}

// NewRepository creates a new catalog repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{pool: db.Pool, db: db}
}

// EnsureSchema creates the catalog schema and tables if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := r.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure catalog schema: %w", err)
		}
	}
	return nil
}

// Ping checks the store is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Location returns host:port/dbname
func (r *Repository) Location() string {
	return r.db.Location()
}

// ReplaceMovies replaces catalog.movies in one transaction.
// Once both ReplaceMovies and ReplaceScores have committed the store counts as built.
func (r *Repository) ReplaceMovies(ctx context.Context, rows []contracts.MovieMeta) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return replaceMovies(ctx, tx, rows)
	})
}

// ReplaceScores replaces catalog.movie_scores in one transaction
func (r *Repository) ReplaceScores(ctx context.Context, rows []contracts.ScoredMovie) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return replaceScores(ctx, tx, rows)
	})
}

// ReplaceCatalog replaces both tables and records the build in one transaction.
// Readers observe either the previous catalog or the new one, never a mix.
func (r *Repository) ReplaceCatalog(ctx context.Context, meta []contracts.MovieMeta, scored []contracts.ScoredMovie, build contracts.BuildInfo) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := replaceMovies(ctx, tx, meta); err != nil {
			return err
		}
		if err := replaceScores(ctx, tx, scored); err != nil {
			return err
		}
		return insertBuild(ctx, tx, build)
	})
	if err != nil {
		return err
	}

	r.built.Store(true)
	return nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceMovies(ctx context.Context, tx pgx.Tx, rows []contracts.MovieMeta) error {
	if _, err := tx.Exec(ctx, "TRUNCATE catalog.movies"); err != nil {
		return fmt.Errorf("failed to truncate movies: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{schema, TableMovies},
		[]string{"movie_id", "title", "genres"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{rows[i].MovieID, rows[i].Title, rows[i].Genres}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy movies: %w", err)
	}
	return markWritten(ctx, tx, TableMovies)
}

func replaceScores(ctx context.Context, tx pgx.Tx, rows []contracts.ScoredMovie) error {
	if _, err := tx.Exec(ctx, "TRUNCATE catalog.movie_scores"); err != nil {
		return fmt.Errorf("failed to truncate movie_scores: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{schema, TableScores},
		[]string{"movie_id", "rating_count", "avg_rating", "weighted_rating"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			s := rows[i]
			return []any{s.MovieID, s.RatingCount, s.AvgRating, s.WeightedRating}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy movie_scores: %w", err)
	}
	return markWritten(ctx, tx, TableScores)
}

// markWritten records that a catalog table has been fully replaced at least once
func markWritten(ctx context.Context, tx pgx.Tx, table string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO catalog.table_writes (table_name, written_at)
		VALUES ($1, now())
		ON CONFLICT (table_name) DO UPDATE SET written_at = EXCLUDED.written_at
	`, table)
	if err != nil {
		return fmt.Errorf("failed to mark %s written: %w", table, err)
	}
	return nil
}

func insertBuild(ctx context.Context, tx pgx.Tx, b contracts.BuildInfo) error {
	query := `
		INSERT INTO catalog.builds (
			build_id, started_at, finished_at, raw_ratings, clean_ratings,
			movies, scored, shrinkage_m, global_mean,
			retention, metadata_coverage, quality_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		b.BuildID, b.StartedAt, b.FinishedAt, b.Quality.RawRatings, b.Quality.CleanRatings,
		b.Movies, b.Scored, b.ShrinkageM, b.GlobalMean,
		b.Quality.Retention, b.Quality.MetadataCoverage, b.Quality.QualityScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert build: %w", err)
	}
	return nil
}

// QueryScores returns scored entries ranked by weighted rating desc, movieId asc
func (r *Repository) QueryScores(ctx context.Context, q contracts.ScoreQuery) ([]contracts.CatalogEntry, error) {
	if err := r.checkBuilt(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT s.movie_id, m.title, m.genres, s.rating_count, s.avg_rating, s.weighted_rating
		FROM catalog.movie_scores s
		LEFT JOIN catalog.movies m ON m.movie_id = s.movie_id
		WHERE s.rating_count >= $1`)
	args := []any{q.MinCount}

	if len(q.Genres) > 0 {
		args = append(args, genrePatterns(q.Genres))
		fmt.Fprintf(&sb, "\n\t\tAND m.genres LIKE ANY($%d::text[])", len(args))
	}

	sb.WriteString("\n\t\tORDER BY s.weighted_rating DESC, s.movie_id ASC")

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, "\n\t\tLIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapStoreError("query scores", err)
	}
	defer rows.Close()

	entries := make([]contracts.CatalogEntry, 0)
	for rows.Next() {
		var e contracts.CatalogEntry
		var s contracts.ScoredMovie
		if err := rows.Scan(&s.MovieID, &e.Title, &e.Genres, &s.RatingCount, &s.AvgRating, &s.WeightedRating); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		e.MovieID = s.MovieID
		e.Score = &s
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("query scores", err)
	}

	return entries, nil
}

// QueryTitles returns movies whose title contains substring (case-insensitive),
// ordered by movieId
func (r *Repository) QueryTitles(ctx context.Context, substring string, limit int) ([]contracts.MovieMeta, error) {
	if err := r.checkBuilt(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT movie_id, title, genres
		FROM catalog.movies
		WHERE title ILIKE $1
		ORDER BY movie_id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, "%"+escapeLike(substring)+"%", limit)
	if err != nil {
		return nil, mapStoreError("query titles", err)
	}
	defer rows.Close()

	movies := make([]contracts.MovieMeta, 0)
	for rows.Next() {
		var m contracts.MovieMeta
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Genres); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("query titles", err)
	}

	return movies, nil
}

// Counts lists the catalog tables with their row counts
func (r *Repository) Counts(ctx context.Context) ([]TableCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name
	`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, contracts.ErrStoreUnavailable
	}

	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var n int64
		query := "SELECT COUNT(*) FROM " + pgx.Identifier{schema, table}.Sanitize()
		if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}

	return counts, nil
}

// LatestBuild returns the most recent build audit row
func (r *Repository) LatestBuild(ctx context.Context) (*contracts.BuildInfo, error) {
	query := `
		SELECT build_id::text, started_at, finished_at, raw_ratings, clean_ratings,
		       movies, scored, shrinkage_m, global_mean,
		       retention, metadata_coverage, quality_score
		FROM catalog.builds
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var b contracts.BuildInfo
	err := r.pool.QueryRow(ctx, query).Scan(
		&b.BuildID, &b.StartedAt, &b.FinishedAt, &b.Quality.RawRatings, &b.Quality.CleanRatings,
		&b.Movies, &b.Scored, &b.ShrinkageM, &b.GlobalMean,
		&b.Quality.Retention, &b.Quality.MetadataCoverage, &b.Quality.QualityScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrStoreUnavailable
	}
	if err != nil {
		return nil, mapStoreError("latest build", err)
	}
	b.Quality.Passed = true

	return &b, nil
}

// checkBuilt fails with ErrStoreUnavailable until a build has been committed
// or both catalog tables have been replaced
func (r *Repository) checkBuilt(ctx context.Context) error {
	if r.built.Load() {
		return nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM catalog.builds)
		    OR (SELECT COUNT(*) FROM catalog.table_writes WHERE table_name = ANY($1)) = 2
	`, []string{TableMovies, TableScores}).Scan(&exists)
	if err != nil {
		return mapStoreError("check build", err)
	}
	if !exists {
		return contracts.ErrStoreUnavailable
	}

	r.built.Store(true)
	return nil
}

// mapStoreError turns a missing catalog table into ErrStoreUnavailable
func mapStoreError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%s: %w", op, contracts.ErrStoreUnavailable)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so input is matched literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func genrePatterns(tags []string) []string {
	patterns := make([]string, len(tags))
	for i, tag := range tags {
		patterns[i] = "%" + escapeLike(tag) + "%"
	}
	return patterns
}
