// Package sim contains the discrete-time simulation engine: the loop that
// ties the environmental models, the admission policy, the job lifecycle,
// the thermal state and the metrics ledger together over one operating day.
package sim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/datasource"
	"github.com/greenhub/hubsim/internal/envmodel"
	"github.com/greenhub/hubsim/internal/metrics"
	"github.com/greenhub/hubsim/internal/model"
	"github.com/greenhub/hubsim/internal/scheduler"
)

// Engine runs one simulated day over a policy and its registered jobs. It
// exclusively owns the hub temperature and the clock; it mutates the jobs it
// is given (shared by reference with the policy) and appends to the metrics
// ledger it creates per run.
type Engine struct {
	cfg     config.Config
	cooling envmodel.Cooling
	logger  *slog.Logger
}

// Result bundles a run's ledger with its aligned per-step time series.
type Result struct {
	Policy  string           `json:"policy"`
	Metrics *metrics.Metrics `json:"-"`
	Summary metrics.Summary  `json:"summary"`

	Hours     []float64 `json:"hours"`
	GridKW    []float64 `json:"grid_kw"`
	SolarKW   []float64 `json:"solar_kw"`
	CoolingKW []float64 `json:"cooling_kw"`
	TempC     []float64 `json:"temp_c"`
}

// New creates an engine for the given configuration.
func New(cfg config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		cooling: envmodel.Cooling{
			FactorKWPerC: cfg.Cooling.FactorKWPerC,
			LoadFactor:   cfg.Cooling.LoadFactor,
			ThresholdC:   cfg.Cooling.ThresholdC,
			COP:          cfg.Cooling.COP,
		},
		logger: logger,
	}
}

// Run executes the day from the configured start hour to the end hour
// (exclusive) in fixed steps. When envAware is false the policy is called
// with zeroed solar and temperature readings, so an environmentally blind
// run goes through exactly the same machinery; accounting and the thermal
// model always use the real values.
//
// The per-step ordering is load-bearing: running jobs advance before the
// policy decides, so decisions see up-to-date remaining durations; admitted
// jobs draw power the step they are admitted and advance from the next.
func (e *Engine) Run(pol scheduler.Policy, envAware bool, solar, temp datasource.Source) (*Result, error) {
	sim := e.cfg.Simulation
	dtHours := sim.StepMinutes / 60.0
	steps := sim.Steps()

	m := metrics.New(metrics.Rates{
		CarbonIntensityKgPerKWh: e.cfg.Carbon.GridIntensityKgPerKWh,
		DeadlinePenaltyKWh:      e.cfg.SLA.DeadlinePenaltyKWh,
		GridPricePerKWh:         e.cfg.Pricing.GridPerKWh,
		CoolingPricePerKWh:      e.cfg.Pricing.CoolingPerKWh,
		CarbonPricePerKg:        e.cfg.Pricing.CarbonPerKg,
	})

	res := &Result{
		Policy:    pol.Name(),
		Metrics:   m,
		Hours:     make([]float64, 0, steps),
		GridKW:    make([]float64, 0, steps),
		SolarKW:   make([]float64, 0, steps),
		CoolingKW: make([]float64, 0, steps),
		TempC:     make([]float64, 0, steps),
	}

	hubTemp := temp.ValueAt(sim.StartHour)
	var running []*model.Job

	for step := 0; step < steps; step++ {
		hour := sim.StartHour + float64(step)*dtHours

		// 1. Environmental readings for this step.
		ambient := temp.ValueAt(hour)
		solarAvail := solar.ValueAt(hour)

		// 2. Advance the running set; completed jobs leave it.
		kept := running[:0]
		for _, j := range running {
			j.Advance(sim.StepMinutes, hour)
			if !j.IsDone() {
				kept = append(kept, j)
			}
		}
		running = kept

		// 3. Admission decision. Blind runs see zeroed readings.
		var admitted []*model.Job
		if envAware {
			admitted = pol.Decide(solarAvail, hubTemp, hour)
		} else {
			admitted = pol.Decide(0, 0, hour)
		}

		// 4. Merge; a job already running is not re-added.
		for _, j := range admitted {
			if !j.IsDone() && !contains(running, j) {
				running = append(running, j)
			}
		}

		// 5. Aggregate power draw, split between solar and grid.
		var computeKW float64
		for _, j := range running {
			computeKW += j.PowerKW
		}
		solarUsed := math.Min(computeKW, solarAvail)
		gridKW := computeKW - solarUsed

		// 6. Cooling demand at the current hub temperature.
		coolingKW, err := e.cooling.PowerKW(hubTemp, computeKW)
		if err != nil {
			return nil, fmt.Errorf("cooling model at hour %.2f: %w", hour, err)
		}

		// 7. Thermal update, clamped to keep the feedback loop sane.
		hubTemp += e.cfg.Thermal.HeatAccumulation*computeKW -
			e.cfg.Thermal.CoolingEfficiency*coolingKW -
			e.cfg.Thermal.Dissipation*(hubTemp-ambient)
		hubTemp = clamp(hubTemp, ambient-5, 100)

		// 8. Accounting.
		m.RecordCompute(computeKW, solarUsed, dtHours)
		m.RecordCooling(coolingKW, dtHours)

		// 9. First-time deadline violations across all registered jobs.
		for _, j := range pol.Jobs() {
			if j.DeadlineViolated(hour) {
				m.RecordViolation()
			}
		}

		// 10. Time series.
		res.Hours = append(res.Hours, hour)
		res.GridKW = append(res.GridKW, gridKW)
		res.SolarKW = append(res.SolarKW, solarUsed)
		res.CoolingKW = append(res.CoolingKW, coolingKW)
		res.TempC = append(res.TempC, hubTemp)
	}

	res.Summary = m.Summarize()

	e.logger.Info("simulation finished",
		slog.String("policy", pol.Name()),
		slog.Int("steps", steps),
		slog.Float64("grid_kwh", m.GridEnergyKWh()),
		slog.Float64("solar_kwh", m.SolarEnergyKWh()),
		slog.Float64("carbon_kg", m.CarbonKg()),
		slog.Int("violations", m.DeadlineViolations()),
	)

	return res, nil
}

// Sources returns the engine's built-in environmental sources, used when no
// external data is injected.
func (e *Engine) Sources() (solar, temp datasource.Source) {
	return BuiltinSources(e.cfg)
}

// BuiltinSources adapts the configured environmental models into the data
// source interface the engine consumes.
func BuiltinSources(cfg config.Config) (solar, temp datasource.Source) {
	sm := envmodel.Solar{
		CapacityKW:  cfg.Solar.CapacityKW,
		Efficiency:  cfg.Solar.Efficiency,
		SunriseHour: cfg.Solar.SunriseHour,
		SunsetHour:  cfg.Solar.SunsetHour,
	}
	tm := envmodel.Temperature{
		MinC:     cfg.Temperature.MinC,
		MaxC:     cfg.Temperature.MaxC,
		PeakHour: cfg.Temperature.PeakHour,
	}
	return datasource.Func(sm.PowerAt), datasource.Func(tm.At)
}

func contains(jobs []*model.Job, job *model.Job) bool {
	for _, j := range jobs {
		if j == job {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
