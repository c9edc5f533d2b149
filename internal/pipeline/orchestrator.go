package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/cinemood/internal/catalog"
	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/s0_ingest"
	"github.com/wonny/cinemood/internal/s0_ingest/quality"
	"github.com/wonny/cinemood/internal/s1_stats"
	"github.com/wonny/cinemood/internal/s2_scoring"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/metrics"
)

// Invalidator is notified after a catalog replacement commits (response cache)
type Invalidator interface {
	BumpGeneration(ctx context.Context) (int64, error)
}

// Orchestrator runs the batch build: ingest → stats → scoring → catalog
// ⭐ SSOT: 파이프라인 조율은 여기서만
//
// The store is touched exactly once, after every stage has succeeded,
// through a single ReplaceCatalog call.
type Orchestrator struct {
	loader      *s0_ingest.Loader
	cleaner     contracts.RatingCleaner
	aggregator  contracts.StatsAggregator
	gate        *quality.Gate
	writer      contracts.CatalogWriter
	invalidator Invalidator
	logger      *logger.Logger
}

// NewOrchestrator creates a new orchestrator.
// writer may be nil for dry runs only; invalidator may be nil.
func NewOrchestrator(
	loader *s0_ingest.Loader,
	gate *quality.Gate,
	writer contracts.CatalogWriter,
	invalidator Invalidator,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		loader:      loader,
		cleaner:     s0_ingest.NewCleaner(),
		aggregator:  s1_stats.NewAggregator(),
		gate:        gate,
		writer:      writer,
		invalidator: invalidator,
		logger:      log.WithComponent("pipeline"),
	}
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	BuildID     string // 비어 있으면 uuid 생성
	RatingsPath string
	MoviesPath  string
	ShrinkageM  int
	DryRun      bool // If true, skip the catalog replacement
}

// RunResult holds the results of a pipeline run
type RunResult struct {
	Build           contracts.BuildInfo
	CleanReport     contracts.CleanReport
	Clean           []contracts.RawRating
	Movies          []contracts.MovieMeta
	Scored          []contracts.ScoredMovie
	Entries         []contracts.CatalogEntry // movieId 오름차순
	CompletedStages []contracts.Stage
	Generation      int64
	DryRun          bool
	Success         bool
	Duration        time.Duration
}

// Run loads the source files and builds the catalog
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	stageStart := time.Now()

	raw, err := o.loader.LoadRatings(cfg.RatingsPath)
	if err != nil {
		metrics.RecordBuildFailure()
		return nil, fmt.Errorf("%s failed: %w", contracts.StageIngest, err)
	}
	movies, err := o.loader.LoadMovies(cfg.MoviesPath)
	if err != nil {
		metrics.RecordBuildFailure()
		return nil, fmt.Errorf("%s failed: %w", contracts.StageIngest, err)
	}
	metrics.RecordStage("load", time.Since(stageStart))

	return o.Build(ctx, raw, movies, cfg)
}

// Build runs every stage on already-loaded inputs
func (o *Orchestrator) Build(ctx context.Context, raw []contracts.RawRating, movies []contracts.MovieMeta, cfg RunConfig) (*RunResult, error) {
	result, err := o.build(ctx, raw, movies, cfg)
	if err != nil {
		metrics.RecordBuildFailure()
		o.logger.WithError(err).Error("Pipeline run failed")
		return result, err
	}
	return result, nil
}

func (o *Orchestrator) build(ctx context.Context, raw []contracts.RawRating, movies []contracts.MovieMeta, cfg RunConfig) (*RunResult, error) {
	if cfg.BuildID == "" {
		cfg.BuildID = uuid.NewString()
	}
	if !cfg.DryRun && o.writer == nil {
		return nil, fmt.Errorf("%s failed: no catalog writer configured", contracts.StageCatalog)
	}

	startTime := time.Now()
	result := &RunResult{
		Movies:          movies,
		DryRun:          cfg.DryRun,
		CompletedStages: make([]contracts.Stage, 0, len(contracts.AllStages())),
	}

	o.logger.WithFields(map[string]interface{}{
		"build_id":    cfg.BuildID,
		"shrinkage_m": cfg.ShrinkageM,
		"dry_run":     cfg.DryRun,
	}).Info("Starting pipeline run")

	// S0: Clean
	stageStart := time.Now()
	clean, report := o.cleaner.Clean(raw)
	result.Clean = clean
	result.CleanReport = report
	o.logger.WithFields(map[string]interface{}{
		"before":            report.Before,
		"after":             report.After,
		"dropped_empty":     report.DroppedEmpty,
		"dropped_duplicate": report.DroppedDuplicate,
		"dropped_missing":   report.DroppedMissing,
		"dropped_range":     report.DroppedRange,
	}).Infof("[Clean] ratings rows: %d -> %d", report.Before, report.After)
	if report.After == 0 {
		return result, fmt.Errorf("%s failed: %w", contracts.StageIngest, contracts.ErrEmptyInput)
	}
	metrics.RecordStage(contracts.StageIngest.String(), time.Since(stageStart))
	result.CompletedStages = append(result.CompletedStages, contracts.StageIngest)

	// S1: Stats
	stageStart = time.Now()
	stats := o.aggregator.Aggregate(clean)
	metrics.RecordStage(contracts.StageStats.String(), time.Since(stageStart))
	result.CompletedStages = append(result.CompletedStages, contracts.StageStats)
	o.logger.WithField("movies", len(stats)).Info("S1 completed")

	// S2: Scoring
	stageStart = time.Now()
	scored, globalMean, err := s2_scoring.NewScorer(cfg.ShrinkageM).Score(stats)
	if err != nil {
		return result, fmt.Errorf("%s failed: %w", contracts.StageScoring, err)
	}
	result.Scored = scored
	metrics.RecordStage(contracts.StageScoring.String(), time.Since(stageStart))
	result.CompletedStages = append(result.CompletedStages, contracts.StageScoring)
	o.logger.WithFields(map[string]interface{}{
		"global_mean": globalMean,
		"scored":      len(scored),
	}).Info("S2 completed")

	// Quality gate on the joined catalog
	result.Entries = catalog.BuildEntries(movies, scored)
	snapshot, err := o.gate.Check(report, result.Entries)
	if err != nil {
		return result, fmt.Errorf("quality gate: %w", err)
	}

	result.Build = contracts.BuildInfo{
		BuildID:    cfg.BuildID,
		StartedAt:  startTime,
		Movies:     len(movies),
		Scored:     len(scored),
		ShrinkageM: cfg.ShrinkageM,
		GlobalMean: globalMean,
		Quality:    *snapshot,
	}

	// S3: Catalog replacement (skip if dry run)
	if cfg.DryRun {
		o.logger.Info("Skipping S3_CATALOG (dry run mode)")
		result.Build.FinishedAt = time.Now()
	} else {
		stageStart = time.Now()
		result.Build.FinishedAt = time.Now()
		if err := o.writer.ReplaceCatalog(ctx, movies, scored, result.Build); err != nil {
			return result, fmt.Errorf("%s failed: %w", contracts.StageCatalog, err)
		}
		metrics.RecordStage(contracts.StageCatalog.String(), time.Since(stageStart))
		result.CompletedStages = append(result.CompletedStages, contracts.StageCatalog)

		if o.invalidator != nil {
			gen, err := o.invalidator.BumpGeneration(ctx)
			if err != nil {
				// 카탈로그는 이미 교체됨. 캐시는 TTL로 만료
				o.logger.WithError(err).Warn("Cache generation bump failed")
			}
			result.Generation = gen
		}
	}

	outcome := "success"
	if cfg.DryRun {
		outcome = "dry_run"
	}
	metrics.RecordBuild(outcome, report.Before, report.After, len(movies), len(scored), snapshot.QualityScore)

	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"build_id":      cfg.BuildID,
		"duration":      result.Duration.Seconds(),
		"stages":        len(result.CompletedStages),
		"quality_score": snapshot.QualityScore,
	}).Info("Pipeline run completed successfully")

	return result, nil
}
