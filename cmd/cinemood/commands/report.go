package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/report"
	"github.com/wonny/cinemood/pkg/logger"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "분석 리포트 (인기 영화, 활동 사용자, 가중 평점 상위)",
	Long: `원본 CSV로 파이프라인을 메모리에서 실행하고 리포트를 출력합니다.
저장소는 읽거나 쓰지 않습니다 (DATABASE_URL 불필요).

리포트:
- 인기 영화: 평점 수 >= --min-count, 평점 수 desc / 평균 desc
- 활동 사용자: 평점 수 desc
- 가중 평점 상위: weighted desc / movieId asc

Flags:
  --export     OUTPUT_DIR에 CSV 저장
  --top        리포트별 행 수 (기본 20)
  --min-count  인기 영화 최소 평점 수 (기본 50)

Example:
  go run ./cmd/cinemood report
  go run ./cmd/cinemood report --export --top 20`,
	RunE: runReport,
}

var (
	reportExport   bool
	reportTop      int
	reportMinCount int64
)

func init() {
	rootCmd.AddCommand(reportCmd)

	// Flags
	reportCmd.Flags().BoolVar(&reportExport, "export", false, "OUTPUT_DIR에 CSV 저장")
	reportCmd.Flags().IntVar(&reportTop, "top", report.DefaultTopN, "리포트별 행 수")
	reportCmd.Flags().Int64Var(&reportMinCount, "min-count", report.DefaultPopularMinCount, "인기 영화 최소 평점 수")
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood Report ===")

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	orchestrator, err := newOrchestrator(cmd.Context(), nil, log)
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	result, err := orchestrator.Run(cmd.Context(), runConfig(cfg, -1, true))
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	set := report.Set{
		Popular:  report.PopularMovies(result.Entries, reportMinCount, reportTop),
		Users:    report.ActiveUsers(result.Clean, reportTop),
		Weighted: report.TopWeighted(result.Entries, reportTop),
	}

	printCleanReport(result.CleanReport)

	PrintHeader(fmt.Sprintf("🎬 Popular movies (>= %d ratings)", reportMinCount))
	popular := make([][]string, 0, len(set.Popular))
	for i, m := range set.Popular {
		popular = append(popular, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(m.MovieID, 10),
			m.Title,
			formatNumber(m.RatingCount),
			fmt.Sprintf("%.3f", m.AvgRating),
		})
	}
	PrintTable([]string{"#", "movieId", "title", "count", "avg"}, []int{4, 8, 40, 8, 6}, popular)

	PrintHeader("👤 Active users")
	users := make([][]string, 0, len(set.Users))
	for i, u := range set.Users {
		users = append(users, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(u.UserID, 10),
			formatNumber(u.RatingCount),
			fmt.Sprintf("%.3f", u.AvgRating),
		})
	}
	PrintTable([]string{"#", "userId", "count", "avg"}, []int{4, 8, 8, 6}, users)

	PrintHeader(fmt.Sprintf("⭐ Top weighted (m = %d)", result.Build.ShrinkageM))
	printWeighted(set.Weighted)

	if !reportExport {
		return nil
	}

	set.Merged = report.MergeRatings(result.Clean, result.Movies)
	paths, err := report.Export(cfg.Pipeline.OutputDir, set)
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}

	fmt.Println()
	for _, p := range paths {
		PrintSuccess("Saved " + p)
	}
	return nil
}
