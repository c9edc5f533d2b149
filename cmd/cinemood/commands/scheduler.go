package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/scheduler"
	"github.com/wonny/cinemood/internal/scheduler/jobs"
	"github.com/wonny/cinemood/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "정기 카탈로그 재빌드 스케줄러",
	Long: `cron 스케줄로 카탈로그를 재빌드합니다.

Jobs:
  catalog_rebuild  - REBUILD_SCHEDULE (기본 "0 0 4 * * *", 초 포함)

실패 시 최대 3회 재시도합니다 (검증 오류, 빈 입력은 재시도 없음).

Example:
  go run ./cmd/cinemood scheduler start
  go run ./cmd/cinemood scheduler list
  go run ./cmd/cinemood scheduler run catalog_rebuild`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작 (Ctrl+C로 종료)",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 Job 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job]",
		Short: "Job 즉시 실행 (완료까지 대기)",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood Scheduler ===")

	sched, cleanup, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s (%s)\n", jobName, sched.GetJobStats()[jobName].Schedule)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	stats := sched.GetJobStats()
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s (%s)\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initScheduler(cmd)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed in %s (%d attempt(s))", jobName, result.Duration, result.Attempts))
	return nil
}

// initScheduler wires the store, the pipeline and the jobs; cleanup closes connections
func initScheduler(cmd *cobra.Command) (*scheduler.Scheduler, func(), error) {
	// 1. Load config
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to store
	deps, err := openStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// 4. Create orchestrator
	orchestrator, err := newOrchestrator(cmd.Context(), deps, log)
	if err != nil {
		deps.Close()
		return nil, nil, fmt.Errorf("init orchestrator: %w", err)
	}

	// 5. Create scheduler and register jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewCatalogRebuildJob(orchestrator, cfg.Pipeline, log)); err != nil {
		deps.Close()
		return nil, nil, err
	}

	return sched, deps.Close, nil
}
