package catalog

import (
	"sort"

	"github.com/wonny/cinemood/internal/contracts"
)

// BuildEntries joins metadata and scores on movieId (full outer join).
// Movies without ratings keep a nil Score; scored movies without metadata
// keep nil Title/Genres. Result is ordered by movieId ascending.
func BuildEntries(meta []contracts.MovieMeta, scored []contracts.ScoredMovie) []contracts.CatalogEntry {
	byID := make(map[int64]*contracts.CatalogEntry, len(meta)+len(scored))

	for _, m := range meta {
		if _, ok := byID[m.MovieID]; ok {
			continue // first metadata row wins
		}
		byID[m.MovieID] = &contracts.CatalogEntry{MovieID: m.MovieID, Title: m.Title, Genres: m.Genres}
	}

	for i := range scored {
		s := scored[i]
		e, ok := byID[s.MovieID]
		if !ok {
			e = &contracts.CatalogEntry{MovieID: s.MovieID}
			byID[s.MovieID] = e
		}
		e.Score = &s
	}

	entries := make([]contracts.CatalogEntry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MovieID < entries[j].MovieID
	})

	return entries
}

// RankEntries orders entries by weighted rating desc, movieId asc.
// Entries without scores sort last.
func RankEntries(entries []contracts.CatalogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HasScore() != b.HasScore() {
			return a.HasScore()
		}
		if a.HasScore() && a.Score.WeightedRating != b.Score.WeightedRating {
			return a.Score.WeightedRating > b.Score.WeightedRating
		}
		return a.MovieID < b.MovieID
	})
}
