package s0_ingest

import "github.com/wonny/cinemood/internal/contracts"

// Cleaner implements contracts.RatingCleaner
// ⭐ SSOT: 평점 정제 규칙은 여기서만
//
// Rows are dropped silently; nothing is ever rewritten. Step order:
//  1. fully empty rows
//  2. exact duplicates (first occurrence kept)
//  3. rows missing userId, movieId or rating
//  4. ratings outside [0.5, 5.0]
type Cleaner struct{}

// NewCleaner creates a new Cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean applies the cleaning steps and reports how many rows each removed
func (c *Cleaner) Clean(raw []contracts.RawRating) ([]contracts.RawRating, contracts.CleanReport) {
	report := contracts.CleanReport{Before: len(raw)}

	seen := make(map[contracts.RatingKey]struct{}, len(raw))
	clean := make([]contracts.RawRating, 0, len(raw))

	for _, r := range raw {
		if r.IsEmpty() {
			report.DroppedEmpty++
			continue
		}

		key := r.Key()
		if _, dup := seen[key]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}

		if !r.IsComplete() {
			report.DroppedMissing++
			continue
		}

		if !r.InRange() {
			report.DroppedRange++
			continue
		}

		clean = append(clean, r)
	}

	report.After = len(clean)
	return clean, report
}

// Clean is a convenience wrapper around Cleaner.Clean
func Clean(raw []contracts.RawRating) ([]contracts.RawRating, contracts.CleanReport) {
	return NewCleaner().Clean(raw)
}
