package contracts

import "strings"

// GenreDelimiter separates genre tags in MovieMeta.Genres (MovieLens format)
const GenreDelimiter = "|"

// MovieMeta is one row of movie metadata
// ⭐ SSOT: movies.csv → catalog.movies
type MovieMeta struct {
	MovieID int64   `json:"movieId"`
	Title   *string `json:"title"`
	Genres  *string `json:"genres"`
}

// GenreTags splits Genres into its ordered tags
func (m MovieMeta) GenreTags() []string {
	if m.Genres == nil || *m.Genres == "" {
		return []string{}
	}
	return strings.Split(*m.Genres, GenreDelimiter)
}

// MovieStats holds the per-movie aggregate of clean ratings
// ⭐ SSOT: S1 → S2 집계 결과 전달
type MovieStats struct {
	MovieID     int64   `json:"movieId"`
	RatingCount int64   `json:"rating_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// ScoredMovie is MovieStats plus the shrunk ranking score
// ⭐ SSOT: S2 → Catalog 점수 전달
type ScoredMovie struct {
	MovieStats
	WeightedRating float64 `json:"weighted_rating"`
}

// CatalogEntry is the persisted join of metadata and scores.
// Either side may be missing: Title/Genres are nil when a scored movie has
// no metadata, and Score is nil when a movie has metadata but no ratings.
type CatalogEntry struct {
	MovieID int64        `json:"movieId"`
	Title   *string      `json:"title"`
	Genres  *string      `json:"genres"`
	Score   *ScoredMovie `json:"-"`
}

// HasScore reports whether the entry carries computed statistics
func (e CatalogEntry) HasScore() bool {
	return e.Score != nil
}

// MatchesAnyGenre reports whether Genres contains any of the tags as a substring.
// Substring (not token) matching is intended: "Dramatic-Fiction" matches "Drama".
func (e CatalogEntry) MatchesAnyGenre(tags []string) bool {
	if e.Genres == nil {
		return false
	}
	for _, tag := range tags {
		if strings.Contains(*e.Genres, tag) {
			return true
		}
	}
	return false
}

// Meta returns the metadata half of the entry
func (e CatalogEntry) Meta() MovieMeta {
	return MovieMeta{MovieID: e.MovieID, Title: e.Title, Genres: e.Genres}
}
