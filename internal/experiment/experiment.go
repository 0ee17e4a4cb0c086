// Package experiment runs repeated randomized baseline-vs-smart comparisons
// so the smart policy's benefit can be judged as a distribution rather than
// a single lucky job set.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/greenhub/hubsim/internal/concurrent"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/datasource"
	"github.com/greenhub/hubsim/internal/model"
	"github.com/greenhub/hubsim/internal/scheduler"
	"github.com/greenhub/hubsim/internal/sim"
)

// TrialResult captures one paired comparison over an identical, independently
// deep-copied job set.
type TrialResult struct {
	Trial              int     `json:"trial"`
	BaselineCost       float64 `json:"baseline_cost"`
	SmartCost          float64 `json:"smart_cost"`
	BaselineGridKWh    float64 `json:"baseline_grid_kwh"`
	SmartGridKWh       float64 `json:"smart_grid_kwh"`
	BaselineSolarKWh   float64 `json:"baseline_solar_kwh"`
	SmartSolarKWh      float64 `json:"smart_solar_kwh"`
	BaselineCarbonKg   float64 `json:"baseline_carbon_kg"`
	SmartCarbonKg      float64 `json:"smart_carbon_kg"`
	BaselineViolations int     `json:"baseline_violations"`
	SmartViolations    int     `json:"smart_violations"`
}

// Runner executes experiment batches with bounded parallelism. Each trial
// gets its own engine, policies and job copies, so trials are safe to run
// concurrently.
type Runner struct {
	cfg    config.Config
	logger *slog.Logger
}

// NewRunner creates an experiment runner for the given configuration.
func NewRunner(cfg config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// RandomJobs generates a plausible mixed job set: powers between 0.8 and
// 3.5 kW, durations between 30 and 180 minutes, uniformly random priority,
// and a deadline between hour 10 and 23 for roughly 70% of jobs.
func RandomJobs(rng *rand.Rand, n int) []*model.Job {
	priorities := []string{"low", "medium", "high"}

	jobs := make([]*model.Job, 0, n)
	for i := 0; i < n; i++ {
		var deadline *float64
		if rng.Float64() > 0.3 {
			d := float64(10 + rng.Intn(14))
			deadline = &d
		}

		// Validated inputs by construction; NewJob cannot fail here.
		job, _ := model.NewJob(
			fmt.Sprintf("job-%d", i),
			0.8+rng.Float64()*2.7,
			float64(30+rng.Intn(151)),
			priorities[rng.Intn(len(priorities))],
			deadline,
		)
		jobs = append(jobs, job)
	}
	return jobs
}

// Run executes the given number of paired comparisons, each seeded
// deterministically from the batch seed plus the trial index.
func (r *Runner) Run(ctx context.Context, trials, jobsPerTrial int, seed int64) ([]TrialResult, error) {
	indexes := make([]int, trials)
	for i := range indexes {
		indexes[i] = i
	}

	results := concurrent.Map(ctx, indexes, func(ctx context.Context, i int) (TrialResult, error) {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		jobs := RandomJobs(rng, jobsPerTrial)
		return r.runTrial(i, jobs)
	}, r.cfg.Experiment.Parallelism)

	if err := concurrent.FirstError(results); err != nil {
		return nil, err
	}

	out := make([]TrialResult, len(results))
	for i, res := range results {
		out[i] = res.Value
	}

	r.logger.Info("experiment batch finished",
		slog.Int("trials", trials),
		slog.Int("jobs_per_trial", jobsPerTrial),
		slog.Int64("seed", seed),
	)
	return out, nil
}

func (r *Runner) runTrial(index int, jobs []*model.Job) (TrialResult, error) {
	solar, temp := sim.BuiltinSources(r.cfg)

	baselineRes, err := r.runOne(scheduler.NewBaseline(scheduler.LimitsFromConfig(r.cfg)), false, jobs, solar, temp)
	if err != nil {
		return TrialResult{}, fmt.Errorf("trial %d baseline: %w", index, err)
	}
	smartRes, err := r.runOne(scheduler.NewSmart(scheduler.LimitsFromConfig(r.cfg)), true, jobs, solar, temp)
	if err != nil {
		return TrialResult{}, fmt.Errorf("trial %d smart: %w", index, err)
	}

	return TrialResult{
		Trial:              index,
		BaselineCost:       baselineRes.Metrics.TotalCost(),
		SmartCost:          smartRes.Metrics.TotalCost(),
		BaselineGridKWh:    baselineRes.Metrics.TotalGridEnergyKWh(),
		SmartGridKWh:       smartRes.Metrics.TotalGridEnergyKWh(),
		BaselineSolarKWh:   baselineRes.Metrics.SolarEnergyKWh(),
		SmartSolarKWh:      smartRes.Metrics.SolarEnergyKWh(),
		BaselineCarbonKg:   baselineRes.Metrics.CarbonKg(),
		SmartCarbonKg:      smartRes.Metrics.CarbonKg(),
		BaselineViolations: baselineRes.Metrics.DeadlineViolations(),
		SmartViolations:    smartRes.Metrics.DeadlineViolations(),
	}, nil
}

// runOne deep-copies the jobs so trials and the paired runs inside a trial
// never alias job state.
func (r *Runner) runOne(pol scheduler.Policy, envAware bool, jobs []*model.Job, solar, temp datasource.Source) (*sim.Result, error) {
	for _, j := range model.CloneJobs(jobs) {
		pol.Register(j)
	}
	return sim.New(r.cfg, r.logger).Run(pol, envAware, solar, temp)
}

// Summary aggregates a batch of trial results.
type Summary struct {
	Trials              int     `json:"trials"`
	MeanBaselineCost    float64 `json:"mean_baseline_cost"`
	MeanSmartCost       float64 `json:"mean_smart_cost"`
	StdDevBaselineCost  float64 `json:"stddev_baseline_cost"`
	StdDevSmartCost     float64 `json:"stddev_smart_cost"`
	CostSavingsPct      float64 `json:"cost_savings_pct"`
	MeanBaselineGridKWh float64 `json:"mean_baseline_grid_kwh"`
	MeanSmartGridKWh    float64 `json:"mean_smart_grid_kwh"`
	GridSavingsPct      float64 `json:"grid_savings_pct"`
	MeanBaselineSolar   float64 `json:"mean_baseline_solar_kwh"`
	MeanSmartSolar      float64 `json:"mean_smart_solar_kwh"`
	MeanCarbonSavedKg   float64 `json:"mean_carbon_saved_kg"`
	BaselineViolations  int     `json:"baseline_violations"`
	SmartViolations     int     `json:"smart_violations"`
}

// Summarize computes batch statistics over trial results.
func Summarize(results []TrialResult) Summary {
	s := Summary{Trials: len(results)}
	if len(results) == 0 {
		return s
	}

	n := float64(len(results))
	var carbonSaved float64
	baseCosts := make([]float64, len(results))
	smartCosts := make([]float64, len(results))

	for i, r := range results {
		baseCosts[i] = r.BaselineCost
		smartCosts[i] = r.SmartCost
		s.MeanBaselineCost += r.BaselineCost / n
		s.MeanSmartCost += r.SmartCost / n
		s.MeanBaselineGridKWh += r.BaselineGridKWh / n
		s.MeanSmartGridKWh += r.SmartGridKWh / n
		s.MeanBaselineSolar += r.BaselineSolarKWh / n
		s.MeanSmartSolar += r.SmartSolarKWh / n
		carbonSaved += r.BaselineCarbonKg - r.SmartCarbonKg
		s.BaselineViolations += r.BaselineViolations
		s.SmartViolations += r.SmartViolations
	}

	s.StdDevBaselineCost = stddev(baseCosts, s.MeanBaselineCost)
	s.StdDevSmartCost = stddev(smartCosts, s.MeanSmartCost)
	s.MeanCarbonSavedKg = carbonSaved / n

	if s.MeanBaselineCost > 0 {
		s.CostSavingsPct = (s.MeanBaselineCost - s.MeanSmartCost) / s.MeanBaselineCost * 100
	}
	if s.MeanBaselineGridKWh > 0 {
		s.GridSavingsPct = (s.MeanBaselineGridKWh - s.MeanSmartGridKWh) / s.MeanBaselineGridKWh * 100
	}
	return s
}

func stddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
