package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/pipeline"
	"github.com/wonny/cinemood/internal/report"
	"github.com/wonny/cinemood/pkg/logger"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "카탈로그 빌드 (CSV → 정제 → 집계 → 베이지안 점수 → 저장)",
	Long: `ratings.csv / movies.csv에서 카탈로그를 다시 빌드합니다.

S0 → S1 → S2 → S3

각 단계:
- S0: CSV 로드, 평점 정제 (빈 행, 중복, 결측, 범위 밖 제거)
- S1: 영화별 평점 수/평균
- S2: 베이지안 가중 평점 (m = SHRINKAGE_M, 기본 1000)
- S3: catalog.movies / movie_scores / builds 단일 트랜잭션 교체

모든 단계가 성공해야만 저장소가 바뀝니다. 실패 시 이전 카탈로그가 유지됩니다.

Flags:
  --dry-run    저장 없이 결과만 출력 (DATABASE_URL 불필요)
  --m          shrinkage m (기본: SHRINKAGE_M)
  --top        상위 N개 출력 (0 = 출력 안 함)

Example:
  go run ./cmd/cinemood build
  go run ./cmd/cinemood build --dry-run --m 500 --top 20`,
	RunE: runBuild,
}

var (
	buildDryRun bool
	buildM      int
	buildTop    int
)

func init() {
	rootCmd.AddCommand(buildCmd)

	// Flags
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "저장 없이 결과만 출력")
	buildCmd.Flags().IntVar(&buildM, "m", -1, "shrinkage m (기본: SHRINKAGE_M)")
	buildCmd.Flags().IntVar(&buildTop, "top", 10, "상위 N개 가중 평점 출력")
}

func runBuild(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood Catalog Build ===")

	// 1. Load config
	cfg, err := loadConfig(!buildDryRun)
	if err != nil {
		return err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to store (not for dry runs)
	var deps *storeDeps
	if !buildDryRun {
		deps, err = openStore(cfg, log)
		if err != nil {
			return err
		}
		defer deps.Close()
	}

	// 4. Create orchestrator
	orchestrator, err := newOrchestrator(cmd.Context(), deps, log)
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	runCfg := runConfig(cfg, buildM, buildDryRun)

	fmt.Printf("\n📂 Ratings: %s\n", runCfg.RatingsPath)
	fmt.Printf("📂 Movies : %s\n", runCfg.MoviesPath)
	fmt.Printf("🔧 m      : %d\n", runCfg.ShrinkageM)
	fmt.Printf("🔧 Dry Run: %v\n\n", runCfg.DryRun)

	// 5. Execute pipeline
	result, err := orchestrator.Run(cmd.Context(), runCfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	printBuildResult(result)

	if buildTop > 0 {
		PrintHeader(fmt.Sprintf("Top %d by weighted rating", buildTop))
		printWeighted(report.TopWeighted(result.Entries, buildTop))
	}

	return nil
}

func printBuildResult(result *pipeline.RunResult) {
	b := result.Build

	PrintHeader("Build " + b.BuildID)
	printCleanReport(result.CleanReport)
	PrintSeparator()
	PrintKeyValue("movies", formatNumber(int64(b.Movies)), 16)
	PrintKeyValue("scored", formatNumber(int64(b.Scored)), 16)
	PrintKeyValue("global mean C", strconv.FormatFloat(b.GlobalMean, 'f', 4, 64), 16)
	PrintKeyValue("retention", formatPercent(b.Quality.Retention), 16)
	PrintKeyValue("metadata", formatPercent(b.Quality.MetadataCoverage), 16)
	PrintKeyValue("duration", result.Duration.Round(time.Millisecond).String(), 16)
	PrintSeparator()

	if result.DryRun {
		PrintInfo("Dry run: catalog store unchanged")
		return
	}
	PrintSuccess(fmt.Sprintf("Catalog replaced (generation %d)", result.Generation))
}
