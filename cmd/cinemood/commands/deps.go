package commands

import (
	"context"
	"fmt"

	"github.com/wonny/cinemood/internal/catalog"
	"github.com/wonny/cinemood/internal/pipeline"
	"github.com/wonny/cinemood/internal/recommend"
	"github.com/wonny/cinemood/internal/s0_ingest"
	"github.com/wonny/cinemood/internal/s0_ingest/quality"
	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/database"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/redis"
)

// redisPrefix namespaces every key this service writes
const redisPrefix = "cinemood"

// loadConfig loads configuration and applies the global flag overrides.
// requireStore=false lets in-memory commands run without DATABASE_URL.
func loadConfig(requireStore bool) (*config.Config, error) {
	load := config.LoadOptionalStore
	if requireStore {
		load = config.Load
	}

	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// storeDeps holds everything that touches PostgreSQL and Redis
type storeDeps struct {
	db    *database.DB
	repo  *catalog.Repository
	redis *redis.Client
	cache *redis.Cache
}

// openStore connects to the catalog store and Redis (disabled client when REDIS_ENABLED=false)
func openStore(cfg *config.Config, log *logger.Logger) (*storeDeps, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.WithField("store", db.Location()).Info("Connected to database")

	rc, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rc.Enabled() {
		log.Info("Connected to redis")
	}

	return &storeDeps{
		db:    db,
		repo:  catalog.NewRepository(db),
		redis: rc,
		cache: redis.NewCache(rc, redisPrefix),
	}, nil
}

// Close releases the connections
func (d *storeDeps) Close() {
	_ = d.redis.Close()
	d.db.Close()
}

// newOrchestrator wires the pipeline. deps may be nil for dry runs.
func newOrchestrator(ctx context.Context, deps *storeDeps, log *logger.Logger) (*pipeline.Orchestrator, error) {
	loader := s0_ingest.NewLoader(log)
	gate := quality.NewGate(quality.DefaultConfig())

	if deps == nil {
		return pipeline.NewOrchestrator(loader, gate, nil, nil, log), nil
	}

	if err := deps.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return pipeline.NewOrchestrator(loader, gate, deps.repo, deps.cache, log), nil
}

// loadMoods returns the mood table from MOOD_TABLE_PATH or the built-in one
func loadMoods(cfg *config.Config, log *logger.Logger) (*recommend.MoodTable, error) {
	if cfg.API.MoodTablePath == "" {
		return recommend.DefaultMoodTable(), nil
	}

	moods, err := recommend.LoadMoodTable(cfg.API.MoodTablePath)
	if err != nil {
		return nil, fmt.Errorf("load mood table: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"path":  cfg.API.MoodTablePath,
		"moods": len(moods.Names()),
	}).Info("Mood table loaded")
	return moods, nil
}

// runConfig builds a pipeline run from config; m < 0 keeps SHRINKAGE_M
func runConfig(cfg *config.Config, m int, dryRun bool) pipeline.RunConfig {
	if m < 0 {
		m = cfg.Pipeline.ShrinkageM
	}
	return pipeline.RunConfig{
		RatingsPath: cfg.Pipeline.RatingsPath(),
		MoviesPath:  cfg.Pipeline.MoviesPath(),
		ShrinkageM:  m,
		DryRun:      dryRun,
	}
}
