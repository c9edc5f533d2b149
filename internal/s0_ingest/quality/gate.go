package quality

import (
	"fmt"

	"github.com/wonny/cinemood/internal/contracts"
)

// Gate validates ingest quality and generates snapshots
type Gate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinRetention        float64 `yaml:"min_retention"`         // 0.0 = 항상 통과
	MinMetadataCoverage float64 `yaml:"min_metadata_coverage"` // 0.0 = 항상 통과
}

// DefaultConfig never blocks a build
func DefaultConfig() Config {
	return Config{
		MinRetention:        0.0,
		MinMetadataCoverage: 0.0,
	}
}

// NewGate creates a new Gate instance
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// Check builds the snapshot for one pipeline run and fails with a
// validation error when a configured threshold is not met.
// ⭐ SSOT: S0 → S1 품질 검증
func (g *Gate) Check(report contracts.CleanReport, entries []contracts.CatalogEntry) (*contracts.IngestQualitySnapshot, error) {
	snapshot := &contracts.IngestQualitySnapshot{
		RawRatings:   report.Before,
		CleanRatings: report.After,
	}

	if report.Before > 0 {
		snapshot.Retention = float64(report.After) / float64(report.Before)
	}
	snapshot.MetadataCoverage = contracts.MetadataCoverageRate(entries)
	snapshot.QualityScore = g.calculateScore(map[string]float64{
		"retention": snapshot.Retention,
		"metadata":  snapshot.MetadataCoverage,
	})

	if snapshot.Retention < g.config.MinRetention {
		return snapshot, contracts.NewValidationError("ratings", "retention",
			fmt.Sprintf("%.4f below minimum %.4f", snapshot.Retention, g.config.MinRetention))
	}
	if snapshot.MetadataCoverage < g.config.MinMetadataCoverage {
		return snapshot, contracts.NewValidationError("movies", "coverage",
			fmt.Sprintf("%.4f below minimum %.4f", snapshot.MetadataCoverage, g.config.MinMetadataCoverage))
	}

	snapshot.Passed = true
	return snapshot, nil
}

// calculateScore calculates overall quality score using weighted average
func (g *Gate) calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		"retention": 0.70, // 정제 후 남은 평점 비율
		"metadata":  0.30, // 메타데이터 매칭률
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}
