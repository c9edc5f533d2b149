package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/wonny/cinemood/internal/contracts"
)

// snapshot is an immutable catalog state
type snapshot struct {
	movies []contracts.MovieMeta   // movieId 오름차순
	scores []contracts.ScoredMovie // movieId 오름차순
	builds []contracts.BuildInfo

	moviesWritten bool
	scoresWritten bool
}

// built reports whether a build was recorded or both tables were written
func (s *snapshot) built() bool {
	return len(s.builds) > 0 || (s.moviesWritten && s.scoresWritten)
}

// MemoryStore is an in-process catalog store.
// Every write builds a new snapshot and swaps it in atomically; readers never lock.
type MemoryStore struct {
	state atomic.Pointer[snapshot]
}

// NewMemoryStore creates an empty, never-built store
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.state.Store(&snapshot{})
	return s
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Location identifies the in-memory store
func (s *MemoryStore) Location() string {
	return "memory"
}

// ReplaceMovies swaps in a new movies table.
// Once both ReplaceMovies and ReplaceScores have run the store counts as built.
func (s *MemoryStore) ReplaceMovies(ctx context.Context, rows []contracts.MovieMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	movies := sortedMovies(rows)
	s.swap(func(next *snapshot) {
		next.movies = movies
		next.moviesWritten = true
	})
	return nil
}

// ReplaceScores swaps in a new movie_scores table
func (s *MemoryStore) ReplaceScores(ctx context.Context, rows []contracts.ScoredMovie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scores := sortedScores(rows)
	s.swap(func(next *snapshot) {
		next.scores = scores
		next.scoresWritten = true
	})
	return nil
}

// ReplaceCatalog swaps in both tables and the build record at once
func (s *MemoryStore) ReplaceCatalog(ctx context.Context, meta []contracts.MovieMeta, scored []contracts.ScoredMovie, build contracts.BuildInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	movies := sortedMovies(meta)
	scores := sortedScores(scored)
	s.swap(func(next *snapshot) {
		next.movies = movies
		next.scores = scores
		next.builds = append(append([]contracts.BuildInfo(nil), next.builds...), build)
		next.moviesWritten, next.scoresWritten = true, true
	})
	return nil
}

// swap copies the current snapshot, applies fn and publishes the result
func (s *MemoryStore) swap(fn func(next *snapshot)) {
	for {
		cur := s.state.Load()
		next := *cur
		fn(&next)
		if s.state.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// QueryScores mirrors Repository.QueryScores
func (s *MemoryStore) QueryScores(ctx context.Context, q contracts.ScoreQuery) ([]contracts.CatalogEntry, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entries := BuildEntries(snap.movies, snap.scores)
	out := make([]contracts.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !e.HasScore() || e.Score.RatingCount < q.MinCount {
			continue
		}
		if len(q.Genres) > 0 && !e.MatchesAnyGenre(q.Genres) {
			continue
		}
		out = append(out, e)
	}

	RankEntries(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// QueryTitles mirrors Repository.QueryTitles
func (s *MemoryStore) QueryTitles(ctx context.Context, substring string, limit int) ([]contracts.MovieMeta, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(substring)
	out := make([]contracts.MovieMeta, 0)
	for _, m := range snap.movies {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if m.Title == nil || !strings.Contains(strings.ToLower(*m.Title), needle) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Counts reports row counts of the three catalog tables
func (s *MemoryStore) Counts(ctx context.Context) ([]TableCount, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return []TableCount{
		{Table: TableBuilds, Rows: int64(len(snap.builds))},
		{Table: TableScores, Rows: int64(len(snap.scores))},
		{Table: TableMovies, Rows: int64(len(snap.movies))},
	}, nil
}

// LatestBuild returns the last recorded build
func (s *MemoryStore) LatestBuild(ctx context.Context) (*contracts.BuildInfo, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.builds) == 0 {
		// 테이블만 직접 교체된 경우 (build 기록 없음)
		return nil, fmt.Errorf("memory store: no build recorded: %w", contracts.ErrStoreUnavailable)
	}
	b := snap.builds[len(snap.builds)-1]
	return &b, nil
}

// Entries returns the full joined catalog ordered by movieId (reports, dry runs)
func (s *MemoryStore) Entries() []contracts.CatalogEntry {
	snap := s.state.Load()
	return BuildEntries(snap.movies, snap.scores)
}

func (s *MemoryStore) load(ctx context.Context) (*snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.state.Load()
	if !snap.built() {
		return nil, fmt.Errorf("memory store: %w", contracts.ErrStoreUnavailable)
	}
	return snap, nil
}

func sortedMovies(rows []contracts.MovieMeta) []contracts.MovieMeta {
	out := append([]contracts.MovieMeta(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out
}

func sortedScores(rows []contracts.ScoredMovie) []contracts.ScoredMovie {
	out := append([]contracts.ScoredMovie(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out
}
