package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/logger"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "카탈로그 저장소 상태 확인",
	Long: `카탈로그 스키마의 테이블과 행 수, 마지막 빌드 정보를 출력합니다.

확인 항목:
- catalog.movies / movie_scores / builds 행 수
- 마지막 빌드 (build id, m, 전역 평균, 보존율)

Example:
  go run ./cmd/cinemood check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood Store Check ===")

	// 1. Load config
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// 2. Connect to store
	log := logger.New(cfg)
	deps, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx := cmd.Context()

	PrintHeader("📊 Catalog store " + deps.repo.Location())

	counts, err := deps.repo.Counts(ctx)
	if errors.Is(err, contracts.ErrStoreUnavailable) {
		PrintWarning("No catalog tables found. Run `cinemood build` first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("count tables: %w", err)
	}

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{"catalog." + c.Table, formatNumber(c.Rows)})
	}
	PrintTable([]string{"table", "rows"}, []int{24, 12}, rows)

	build, err := deps.repo.LatestBuild(ctx)
	if errors.Is(err, contracts.ErrStoreUnavailable) {
		PrintWarning("Catalog has never been built. Run `cinemood build` first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("latest build: %w", err)
	}

	PrintHeader("🏗  Latest build")
	PrintKeyValue("build id", build.BuildID, 16)
	PrintKeyValue("finished", build.FinishedAt.Format("2006-01-02 15:04:05"), 16)
	PrintKeyValue("ratings", fmt.Sprintf("%s -> %s",
		formatNumber(int64(build.Quality.RawRatings)),
		formatNumber(int64(build.Quality.CleanRatings))), 16)
	PrintKeyValue("movies", formatNumber(int64(build.Movies)), 16)
	PrintKeyValue("scored", formatNumber(int64(build.Scored)), 16)
	PrintKeyValue("m", fmt.Sprintf("%d", build.ShrinkageM), 16)
	PrintKeyValue("global mean C", fmt.Sprintf("%.4f", build.GlobalMean), 16)
	PrintKeyValue("quality score", fmt.Sprintf("%.2f", build.Quality.QualityScore), 16)
	PrintSuccess("Catalog ready")

	return nil
}
