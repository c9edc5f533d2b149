package contracts

import "time"

// IngestQualitySnapshot summarizes how much of the source survived ingest
// ⭐ SSOT: S0 품질 정보 (builds 테이블에 함께 저장)
type IngestQualitySnapshot struct {
	RawRatings       int     `json:"raw_ratings"`
	CleanRatings     int     `json:"clean_ratings"`
	Retention        float64 `json:"retention"`         // clean / raw
	MetadataCoverage float64 `json:"metadata_coverage"` // scored movies with metadata / scored movies
	QualityScore     float64 `json:"quality_score"`     // 0.0 ~ 1.0
	Passed           bool    `json:"passed"`
}

// IsValid checks if the snapshot has anything to score
func (q *IngestQualitySnapshot) IsValid() bool {
	return q.Passed && q.CleanRatings > 0
}

// BuildInfo is the audit row written with every catalog replacement
type BuildInfo struct {
	BuildID    string                `json:"build_id"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Movies     int                   `json:"movies"`
	Scored     int                   `json:"scored"`
	ShrinkageM int                   `json:"shrinkage_m"`
	GlobalMean float64               `json:"global_mean"`
	Quality    IngestQualitySnapshot `json:"quality"`
}
