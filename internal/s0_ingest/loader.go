package s0_ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/logger"
)

// Required CSV columns (MovieLens naming)
var (
	ratingColumns = []string{"userId", "movieId", "rating"}
	movieColumns  = []string{"movieId", "title", "genres"}
)

// Loader reads the MovieLens source files
// ⭐ SSOT: CSV 파싱은 여기서만
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a new Loader
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log.WithComponent("s0_ingest")}
}

// LoadRatings reads ratings.csv. Individual malformed cells become nil fields
// and are left for the cleaner to drop; a missing file or column is fatal.
func (l *Loader) LoadRatings(path string) ([]contracts.RawRating, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ratings, err := ParseRatings(f, path)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(ratings),
	}).Info("Ratings loaded")

	return ratings, nil
}

// LoadMovies reads movies.csv, keeping the first row seen for each movieId
func (l *Loader) LoadMovies(path string) ([]contracts.MovieMeta, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	movies, skipped, err := ParseMovies(f, path)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(map[string]interface{}{
		"path":    path,
		"movies":  len(movies),
		"skipped": skipped,
	}).Info("Movies loaded")

	return movies, nil
}

// ParseRatings parses rating rows from r. source is only used in error messages.
func ParseRatings(r io.Reader, source string) ([]contracts.RawRating, error) {
	reader, index, err := newCSVReader(r, source, ratingColumns)
	if err != nil {
		return nil, err
	}
	tsCol, hasTS := index["timestamp"]

	ratings := make([]contracts.RawRating, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, contracts.NewValidationError(source, "", fmt.Sprintf("read csv: %v", err))
		}

		row := contracts.RawRating{
			UserID:  parseInt(cell(record, index["userId"])),
			MovieID: parseInt(cell(record, index["movieId"])),
			Rating:  parseFloat(cell(record, index["rating"])),
		}
		if hasTS {
			row.Timestamp = parseInt(cell(record, tsCol))
		}
		ratings = append(ratings, row)
	}

	return ratings, nil
}

// ParseMovies parses movie rows from r. Rows without a usable movieId are
// skipped and counted; duplicates keep the first occurrence.
func ParseMovies(r io.Reader, source string) ([]contracts.MovieMeta, int, error) {
	reader, index, err := newCSVReader(r, source, movieColumns)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[int64]struct{})
	movies := make([]contracts.MovieMeta, 0, 1024)
	skipped := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, contracts.NewValidationError(source, "", fmt.Sprintf("read csv: %v", err))
		}

		id := parseInt(cell(record, index["movieId"]))
		if id == nil {
			skipped++
			continue
		}
		if _, dup := seen[*id]; dup {
			skipped++
			continue
		}
		seen[*id] = struct{}{}

		movies = append(movies, contracts.MovieMeta{
			MovieID: *id,
			Title:   optionalString(cell(record, index["title"])),
			Genres:  optionalString(cell(record, index["genres"])),
		})
	}

	return movies, skipped, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, contracts.NewValidationError(path, "", "file not found")
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// newCSVReader reads the header and checks that every required column exists
func newCSVReader(r io.Reader, source string, required []string) (*csv.Reader, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 짧은 행 허용 (누락 셀 = nil)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, contracts.NewValidationError(source, "", "empty file")
	}
	if err != nil {
		return nil, nil, contracts.NewValidationError(source, "", fmt.Sprintf("read header: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, nil, contracts.NewValidationError(source, col, "required column missing")
		}
	}

	return reader, index, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseInt accepts "42" and integral floats such as "42.0"
func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	// int64 범위 밖 (float64(MaxInt64) == 2^63)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	v := int64(f)
	return &v
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
