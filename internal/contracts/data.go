package contracts

// MetadataCoverageRate returns the share of scored movies that have a title.
// Returns 0 for an empty set.
func MetadataCoverageRate(entries []CatalogEntry) float64 {
	scored, withMeta := 0, 0
	for _, e := range entries {
		if !e.HasScore() {
			continue
		}
		scored++
		if e.Title != nil {
			withMeta++
		}
	}
	if scored == 0 {
		return 0.0
	}
	return float64(withMeta) / float64(scored)
}
