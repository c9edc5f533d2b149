package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 메트릭 label, builds row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → Catalog
//   Ingest  Stats  Scoring  Replace

// Stage represents a pipeline stage
type Stage string

const (
	// StageIngest S0: 원본 CSV 로드 및 평점 정제
	// 위치: internal/s0_ingest/
	StageIngest Stage = "S0_INGEST"

	// StageStats S1: 영화별 평점 수/평균 집계
	// 위치: internal/s1_stats/
	StageStats Stage = "S1_STATS"

	// StageScoring S2: 베이지안 가중 평점
	// 위치: internal/s2_scoring/
	StageScoring Stage = "S2_SCORING"

	// StageCatalog S3: 카탈로그 전체 교체 (단일 트랜잭션)
	// 위치: internal/catalog/
	StageCatalog Stage = "S3_CATALOG"
)

// AllStages returns all pipeline stages in execution order
func AllStages() []Stage {
	return []Stage{
		StageIngest,
		StageStats,
		StageScoring,
		StageCatalog,
	}
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// IsValid checks if the stage is a known pipeline stage
func (s Stage) IsValid() bool {
	for _, stage := range AllStages() {
		if s == stage {
			return true
		}
	}
	return false
}
