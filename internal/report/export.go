package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// utf8BOM lets spreadsheet tools detect UTF-8 titles
const utf8BOM = "\ufeff"

// Set bundles the reports of one run
type Set struct {
	Popular  []PopularMovie
	Users    []ActiveUser
	Weighted []WeightedMovie
	Merged   []MergedRating // 정제된 전체 평점 + title/genres
}

// Export writes the report set as CSV files into dir and returns the written paths
func Export(dir string, set Set) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name   string
		bom    bool
		header []string
		rows   [][]string
	}{
		{FilePopularMovies, false, []string{"movieId", "title", "rating_count", "avg_rating"}, popularRows(set.Popular)},
		{FileActiveUsers, false, []string{"userId", "rating_count", "avg_rating"}, userRows(set.Users)},
		{FileTopWeighted, true, []string{"movieId", "title", "rating_count", "avg_rating", "weighted_rating"}, weightedRows(set.Weighted)},
		{FileMergedRatings, false, []string{"userId", "movieId", "rating", "timestamp", "title", "genres"}, mergedRows(set.Merged)},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.bom, f.header, f.rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, bom bool, header []string, rows [][]string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	buf := bufio.NewWriter(out)
	if bom {
		if _, err := buf.WriteString(utf8BOM); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return out.Close()
}

func popularRows(rows []PopularMovie) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{itoa(r.MovieID), r.Title, itoa(r.RatingCount), ftoa(r.AvgRating)}
	}
	return out
}

func userRows(rows []ActiveUser) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{itoa(r.UserID), itoa(r.RatingCount), ftoa(r.AvgRating)}
	}
	return out
}

func weightedRows(rows []WeightedMovie) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{itoa(r.MovieID), optString(r.Title), itoa(r.RatingCount), ftoa(r.AvgRating), ftoa(r.WeightedRating)}
	}
	return out
}

func mergedRows(rows []MergedRating) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			optInt(r.UserID),
			optInt(r.MovieID),
			optFloat(r.Rating),
			optInt(r.Timestamp),
			optString(r.Title),
			optString(r.Genres),
		}
	}
	return out
}

// missing values are written as empty cells
func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return ftoa(*v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
