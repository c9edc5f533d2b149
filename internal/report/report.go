package report

import (
	"sort"

	"github.com/wonny/cinemood/internal/contracts"
)

// Report defaults
const (
	DefaultTopN            = 20
	DefaultPopularMinCount = 50
	FilePopularMovies      = "top20_popular_movies.csv"
	FileActiveUsers        = "top20_active_users.csv"
	FileTopWeighted        = "top20_weighted.csv"
	FileMergedRatings      = "ratings_merged_cleaned.csv"
)

// PopularMovie is one row of the popular movies report
type PopularMovie struct {
	MovieID     int64   `json:"movieId"`
	Title       string  `json:"title"`
	RatingCount int64   `json:"rating_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// ActiveUser is one row of the active users report
type ActiveUser struct {
	UserID      int64   `json:"userId"`
	RatingCount int64   `json:"rating_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// WeightedMovie is one row of the top weighted report
type WeightedMovie struct {
	MovieID        int64   `json:"movieId"`
	Title          *string `json:"title"`
	RatingCount    int64   `json:"rating_count"`
	AvgRating      float64 `json:"avg_rating"`
	WeightedRating float64 `json:"weighted_rating"`
}

// MergedRating is one clean rating with its movie's title and genres attached
type MergedRating struct {
	contracts.RawRating
	Title  *string `json:"title"`
	Genres *string `json:"genres"`
}

// MergeRatings left-joins clean ratings with movie metadata, keeping rating order.
// Ratings of movies without metadata keep nil title and genres.
func MergeRatings(clean []contracts.RawRating, movies []contracts.MovieMeta) []MergedRating {
	meta := make(map[int64]contracts.MovieMeta, len(movies))
	for _, m := range movies {
		meta[m.MovieID] = m
	}

	out := make([]MergedRating, len(clean))
	for i, r := range clean {
		out[i] = MergedRating{RawRating: r}
		if r.MovieID == nil {
			continue
		}
		if m, ok := meta[*r.MovieID]; ok {
			out[i].Title, out[i].Genres = m.Title, m.Genres
		}
	}
	return out
}

// PopularMovies returns the n most-rated titled movies with at least minCount ratings,
// ordered by count desc, average desc, movieId asc. Movies without a title are skipped.
func PopularMovies(entries []contracts.CatalogEntry, minCount int64, n int) []PopularMovie {
	rows := make([]PopularMovie, 0)
	for _, e := range entries {
		if !e.HasScore() || e.Title == nil || e.Score.RatingCount < minCount {
			continue
		}
		rows = append(rows, PopularMovie{
			MovieID:     e.MovieID,
			Title:       *e.Title,
			RatingCount: e.Score.RatingCount,
			AvgRating:   e.Score.AvgRating,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		return a.MovieID < b.MovieID
	})

	return head(rows, n)
}

// ActiveUsers returns the n users with the most clean ratings (count desc, userId asc)
func ActiveUsers(clean []contracts.RawRating, n int) []ActiveUser {
	type acc struct {
		count int64
		sum   float64
	}
	byUser := make(map[int64]*acc)
	for _, r := range clean {
		if !r.IsComplete() {
			continue
		}
		a, ok := byUser[*r.UserID]
		if !ok {
			a = &acc{}
			byUser[*r.UserID] = a
		}
		a.count++
		a.sum += *r.Rating
	}

	rows := make([]ActiveUser, 0, len(byUser))
	for id, a := range byUser {
		rows = append(rows, ActiveUser{UserID: id, RatingCount: a.count, AvgRating: a.sum / float64(a.count)})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RatingCount != rows[j].RatingCount {
			return rows[i].RatingCount > rows[j].RatingCount
		}
		return rows[i].UserID < rows[j].UserID
	})

	return head(rows, n)
}

// TopWeighted returns the n highest weighted ratings (weighted desc, movieId asc)
func TopWeighted(entries []contracts.CatalogEntry, n int) []WeightedMovie {
	rows := make([]WeightedMovie, 0, len(entries))
	for _, e := range entries {
		if !e.HasScore() {
			continue
		}
		rows = append(rows, WeightedMovie{
			MovieID:        e.MovieID,
			Title:          e.Title,
			RatingCount:    e.Score.RatingCount,
			AvgRating:      e.Score.AvgRating,
			WeightedRating: e.Score.WeightedRating,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeightedRating != rows[j].WeightedRating {
			return rows[i].WeightedRating > rows[j].WeightedRating
		}
		return rows[i].MovieID < rows[j].MovieID
	})

	return head(rows, n)
}

func head[T any](rows []T, n int) []T {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
