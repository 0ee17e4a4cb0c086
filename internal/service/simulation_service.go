// Package service coordinates the engine, the experiment runner and the
// results store behind one interface the API and the CLI both use.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenhub/hubsim/internal/cache"
	"github.com/greenhub/hubsim/internal/concurrent"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/datasource"
	"github.com/greenhub/hubsim/internal/experiment"
	"github.com/greenhub/hubsim/internal/model"
	"github.com/greenhub/hubsim/internal/scheduler"
	"github.com/greenhub/hubsim/internal/sim"
	"github.com/greenhub/hubsim/internal/store"
)

// RunReport is one policy's outcome within a comparison.
type RunReport struct {
	Policy   string              `json:"policy"`
	Result   *sim.Result         `json:"result"`
	Timeline []sim.TimelineEntry `json:"timeline"`
}

// Comparison pairs a baseline run and a smart run over identical deep-copied
// job sets, plus the headline deltas between them.
type Comparison struct {
	Baseline       RunReport `json:"baseline"`
	Smart          RunReport `json:"smart"`
	CostSavingsPct float64   `json:"cost_savings_pct"`
	GridSavingsPct float64   `json:"grid_savings_pct"`
	CarbonSavedKg  float64   `json:"carbon_saved_kg"`
}

// ProfilePoint is one sample of an environmental curve.
type ProfilePoint struct {
	Hour  float64 `json:"hour"`
	Value float64 `json:"value"`
}

// SimulationService exposes the simulator's operations to the API and CLI.
type SimulationService interface {
	Config() config.Config
	Compare(ctx context.Context, jobs []*model.Job) (*Comparison, error)
	SolarProfile(stepHours float64) []ProfilePoint
	TemperatureProfile(stepHours float64) []ProfilePoint
	RunExperiments(ctx context.Context, trials, jobsPerTrial int, seed int64) (*store.ExperimentRun, error)
	ListExperiments(ctx context.Context) ([]store.ExperimentRun, error)
	GetExperiment(ctx context.Context, id string) (*store.ExperimentRun, error)
}

type simulationService struct {
	cfg    config.Config
	logger *slog.Logger
	cache  cache.Cache
	ttl    time.Duration
	db     *store.Store // nil when persistence is disabled
	solar  datasource.Source
	temp   datasource.Source
}

// New creates the simulation service. db may be nil; experiment results are
// then returned but not persisted.
func New(cfg config.Config, solar, temp datasource.Source, resultCache cache.Cache, db *store.Store, logger *slog.Logger) SimulationService {
	return &simulationService{
		cfg:    cfg,
		logger: logger,
		cache:  resultCache,
		ttl:    cfg.Cache.TTL,
		db:     db,
		solar:  solar,
		temp:   temp,
	}
}

func (s *simulationService) Config() config.Config { return s.cfg }

// Compare runs the baseline and smart policies over deep copies of the same
// job set, in parallel, and caches the outcome by job-set fingerprint.
func (s *simulationService) Compare(ctx context.Context, jobs []*model.Job) (*Comparison, error) {
	key := cache.JobSetKey(jobs)
	if cached, ok := s.cache.Get(key); ok {
		if cmp, ok := cached.(*Comparison); ok {
			return cmp, nil
		}
	}

	type run struct {
		pol      scheduler.Policy
		envAware bool
	}
	limits := scheduler.LimitsFromConfig(s.cfg)
	runs := []run{
		{pol: scheduler.NewBaseline(limits), envAware: false},
		{pol: scheduler.NewSmart(limits), envAware: true},
	}

	results := concurrent.Map(ctx, runs, func(ctx context.Context, r run) (RunReport, error) {
		for _, j := range model.CloneJobs(jobs) {
			r.pol.Register(j)
		}
		res, err := sim.New(s.cfg, s.logger).Run(r.pol, r.envAware, s.solar, s.temp)
		if err != nil {
			return RunReport{}, fmt.Errorf("%s run: %w", r.pol.Name(), err)
		}
		return RunReport{
			Policy:   r.pol.Name(),
			Result:   res,
			Timeline: sim.Timeline(r.pol.Jobs()),
		}, nil
	}, len(runs))

	if err := concurrent.FirstError(results); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Baseline: results[0].Value,
		Smart:    results[1].Value,
	}

	base, smart := cmp.Baseline.Result.Summary, cmp.Smart.Result.Summary
	if base.TotalCost > 0 {
		cmp.CostSavingsPct = (base.TotalCost - smart.TotalCost) / base.TotalCost * 100
	}
	if base.TotalGridKWh > 0 {
		cmp.GridSavingsPct = (base.TotalGridKWh - smart.TotalGridKWh) / base.TotalGridKWh * 100
	}
	cmp.CarbonSavedKg = base.CarbonKg - smart.CarbonKg

	s.cache.Set(key, cmp, s.ttl)
	return cmp, nil
}

// SolarProfile samples the active solar source over one day.
func (s *simulationService) SolarProfile(stepHours float64) []ProfilePoint {
	return sampleProfile(s.solar, stepHours)
}

// TemperatureProfile samples the active temperature source over one day.
func (s *simulationService) TemperatureProfile(stepHours float64) []ProfilePoint {
	return sampleProfile(s.temp, stepHours)
}

func sampleProfile(src datasource.Source, stepHours float64) []ProfilePoint {
	if stepHours <= 0 {
		stepHours = 0.5
	}
	var points []ProfilePoint
	for hour := 0.0; hour < 24; hour += stepHours {
		points = append(points, ProfilePoint{Hour: hour, Value: src.ValueAt(hour)})
	}
	return points
}

// RunExperiments executes a randomized batch and persists the summary when a
// store is configured.
func (s *simulationService) RunExperiments(ctx context.Context, trials, jobsPerTrial int, seed int64) (*store.ExperimentRun, error) {
	if trials <= 0 {
		trials = s.cfg.Experiment.Trials
	}
	if jobsPerTrial <= 0 {
		jobsPerTrial = s.cfg.Experiment.JobsPerTrial
	}

	runner := experiment.NewRunner(s.cfg, s.logger)
	results, err := runner.Run(ctx, trials, jobsPerTrial, seed)
	if err != nil {
		return nil, fmt.Errorf("run experiments: %w", err)
	}

	run := &store.ExperimentRun{
		ID:           uuid.NewString(),
		Seed:         seed,
		Trials:       trials,
		JobsPerTrial: jobsPerTrial,
		Summary:      experiment.Summarize(results),
		CreatedAt:    time.Now().UTC(),
	}

	if s.db != nil {
		if err := s.db.SaveRun(ctx, *run); err != nil {
			return nil, fmt.Errorf("persist experiment run: %w", err)
		}
	}
	return run, nil
}

func (s *simulationService) ListExperiments(ctx context.Context) ([]store.ExperimentRun, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.ListRuns(ctx)
}

func (s *simulationService) GetExperiment(ctx context.Context, id string) (*store.ExperimentRun, error) {
	if s.db == nil {
		return nil, store.ErrNotFound
	}
	return s.db.GetRun(ctx, id)
}
