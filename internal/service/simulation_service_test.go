package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenhub/hubsim/internal/cache"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/model"
	"github.com/greenhub/hubsim/internal/sim"
	"github.com/greenhub/hubsim/internal/store"
)

func testService(t *testing.T, db *store.Store) SimulationService {
	t.Helper()
	cfg := config.Default()
	solar, temp := sim.BuiltinSources(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, solar, temp, cache.New(cfg.Cache.TTL), db, logger)
}

func testJobs(t *testing.T) []*model.Job {
	t.Helper()
	deadline := 18.0
	train, err := model.NewJob("ai-training", 3.5, 120, "high", &deadline)
	require.NoError(t, err)
	backup, err := model.NewJob("data-backup", 1.2, 90, "low", nil)
	require.NoError(t, err)
	return []*model.Job{train, backup}
}

func TestCompareRunsBothPolicies(t *testing.T) {
	svc := testService(t, nil)
	jobs := testJobs(t)

	cmp, err := svc.Compare(context.Background(), jobs)
	require.NoError(t, err)

	assert.Equal(t, "baseline", cmp.Baseline.Policy)
	assert.Equal(t, "smart", cmp.Smart.Policy)
	assert.NotEmpty(t, cmp.Baseline.Timeline)
	assert.NotEmpty(t, cmp.Smart.Timeline)
	assert.LessOrEqual(t, cmp.Smart.Result.Summary.TotalCost, cmp.Baseline.Result.Summary.TotalCost+1e-9)

	// Both runs operate on copies; callers keep pristine jobs.
	for _, j := range jobs {
		assert.True(t, j.IsWaiting())
	}
}

func TestCompareCachesByJobSet(t *testing.T) {
	svc := testService(t, nil)

	first, err := svc.Compare(context.Background(), testJobs(t))
	require.NoError(t, err)
	second, err := svc.Compare(context.Background(), testJobs(t))
	require.NoError(t, err)

	// Equivalent job definitions hit the cache.
	assert.Same(t, first, second)
}

func TestProfilesSampleOneDay(t *testing.T) {
	svc := testService(t, nil)

	solar := svc.SolarProfile(1)
	require.Len(t, solar, 24)
	assert.Equal(t, 0.0, solar[0].Hour)
	assert.Equal(t, 0.0, solar[0].Value)
	assert.Greater(t, solar[12].Value, 0.0)

	temp := svc.TemperatureProfile(0.5)
	require.Len(t, temp, 48)
	for _, p := range temp {
		assert.GreaterOrEqual(t, p.Value, 26.0-1e-9)
		assert.LessOrEqual(t, p.Value, 42.0+1e-9)
	}

	// Nonsense steps fall back to the default sampling.
	assert.Len(t, svc.SolarProfile(-1), 48)
}

func TestRunExperimentsWithoutStore(t *testing.T) {
	svc := testService(t, nil)

	run, err := svc.RunExperiments(context.Background(), 2, 3, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, int64(7), run.Seed)
	assert.Equal(t, 2, run.Trials)
	assert.Equal(t, 3, run.JobsPerTrial)
	assert.Equal(t, 2, run.Summary.Trials)

	// Nothing is persisted without a store.
	runs, err := svc.ListExperiments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = svc.GetExperiment(context.Background(), run.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunExperimentsDefaultsFromConfig(t *testing.T) {
	svc := testService(t, nil)

	run, err := svc.RunExperiments(context.Background(), 0, 0, 7)
	require.NoError(t, err)

	cfg := config.Default()
	assert.Equal(t, cfg.Experiment.Trials, run.Trials)
	assert.Equal(t, cfg.Experiment.JobsPerTrial, run.JobsPerTrial)
}

func TestRunExperimentsPersistsWhenStoreConfigured(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "hubsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := testService(t, db)
	ctx := context.Background()

	run, err := svc.RunExperiments(ctx, 2, 2, 11)
	require.NoError(t, err)

	got, err := svc.GetExperiment(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Summary, got.Summary)

	runs, err := svc.ListExperiments(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
