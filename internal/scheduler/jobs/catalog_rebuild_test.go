package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/pipeline"
	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/logger"
)

type recordingRunner struct {
	got []pipeline.RunConfig
	err error
}

func (r *recordingRunner) Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error) {
	r.got = append(r.got, cfg)
	if r.err != nil {
		return nil, r.err
	}
	return &pipeline.RunResult{Build: contracts.BuildInfo{BuildID: "b"}, Success: true}, nil
}

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		DataDir:     "data",
		RatingsFile: "ratings.csv",
		MoviesFile:  "movies.csv",
		ShrinkageM:  1000,
	}
}

func TestCatalogRebuildJob(t *testing.T) {
	runner := &recordingRunner{}
	job := NewCatalogRebuildJob(runner, pipelineConfig(), logger.NewNop())

	assert.Equal(t, "catalog_rebuild", job.Name())
	assert.Equal(t, "0 0 4 * * *", job.Schedule(), "default schedule")

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, runner.got, 2)
	assert.Equal(t, pipeline.RunConfig{
		RatingsPath: filepath.Join("data", "ratings.csv"),
		MoviesPath:  filepath.Join("data", "movies.csv"),
		ShrinkageM:  1000,
	}, runner.got[0])
	assert.Empty(t, runner.got[1].BuildID, "build id is generated per run")
	assert.False(t, runner.got[0].DryRun)
}

func TestCatalogRebuildJob_CustomSchedule(t *testing.T) {
	cfg := pipelineConfig()
	cfg.RebuildSchedule = "0 30 2 * * *"
	job := NewCatalogRebuildJob(&recordingRunner{}, cfg, logger.NewNop())
	assert.Equal(t, "0 30 2 * * *", job.Schedule())
}

func TestCatalogRebuildJob_WrapsError(t *testing.T) {
	runner := &recordingRunner{err: contracts.ErrEmptyInput}
	job := NewCatalogRebuildJob(runner, pipelineConfig(), logger.NewNop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmptyInput))
}
