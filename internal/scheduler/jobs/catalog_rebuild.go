package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/cinemood/internal/pipeline"
	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/logger"
)

// CatalogRebuildJobName is the registered name of the rebuild job
const CatalogRebuildJobName = "catalog_rebuild"

// PipelineRunner is satisfied by *pipeline.Orchestrator
type PipelineRunner interface {
	Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error)
}

// CatalogRebuildJob rebuilds the catalog from the source files
// ⭐ SSOT: 정기 카탈로그 재빌드는 이 Job에서만
type CatalogRebuildJob struct {
	runner   PipelineRunner
	cfg      config.PipelineConfig
	schedule string
	logger   *logger.Logger
}

// NewCatalogRebuildJob creates a new catalog rebuild job
func NewCatalogRebuildJob(runner PipelineRunner, cfg config.PipelineConfig, log *logger.Logger) *CatalogRebuildJob {
	schedule := cfg.RebuildSchedule
	if schedule == "" {
		schedule = "0 0 4 * * *"
	}
	return &CatalogRebuildJob{
		runner:   runner,
		cfg:      cfg,
		schedule: schedule,
		logger:   log.WithComponent("job." + CatalogRebuildJobName),
	}
}

// Name returns the job name
func (j *CatalogRebuildJob) Name() string {
	return CatalogRebuildJobName
}

// Schedule returns the cron schedule (REBUILD_SCHEDULE, 기본 매일 04:00)
func (j *CatalogRebuildJob) Schedule() string {
	return j.schedule
}

// Run executes one full rebuild; every run gets a fresh build id
func (j *CatalogRebuildJob) Run(ctx context.Context) error {
	j.logger.WithFields(map[string]interface{}{
		"ratings": j.cfg.RatingsPath(),
		"movies":  j.cfg.MoviesPath(),
		"m":       j.cfg.ShrinkageM,
	}).Info("Starting scheduled catalog rebuild")

	result, err := j.runner.Run(ctx, pipeline.RunConfig{
		RatingsPath: j.cfg.RatingsPath(),
		MoviesPath:  j.cfg.MoviesPath(),
		ShrinkageM:  j.cfg.ShrinkageM,
	})
	if err != nil {
		return fmt.Errorf("catalog rebuild: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"build_id":   result.Build.BuildID,
		"movies":     result.Build.Movies,
		"scored":     result.Build.Scored,
		"generation": result.Generation,
		"duration":   result.Duration,
	}).Info("Catalog rebuilt")

	return nil
}
