package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every tunable of the simulator. It is an immutable value:
// it is populated once at startup and passed by value into the engine,
// policies and environmental models, so independent simulations can run in
// parallel with different parameter sets.
type Config struct {
	Simulation  SimulationConfig  `koanf:"simulation" json:"simulation"`
	Hub         HubConfig         `koanf:"hub" json:"hub"`
	Thermal     ThermalConfig     `koanf:"thermal" json:"thermal"`
	Solar       SolarConfig       `koanf:"solar" json:"solar"`
	Temperature TemperatureConfig `koanf:"temperature" json:"temperature"`
	Cooling     CoolingConfig     `koanf:"cooling" json:"cooling"`
	Carbon      CarbonConfig      `koanf:"carbon" json:"carbon"`
	Pricing     PricingConfig     `koanf:"pricing" json:"pricing"`
	SLA         SLAConfig         `koanf:"sla" json:"sla"`
	Scheduler   SchedulerConfig   `koanf:"scheduler" json:"scheduler"`
	Experiment  ExperimentConfig  `koanf:"experiment" json:"experiment"`
	Storage     StorageConfig     `koanf:"storage" json:"storage"`
	Server      ServerConfig      `koanf:"server" json:"server"`
	Cache       CacheConfig       `koanf:"cache" json:"cache"`
}

// SimulationConfig defines the simulated operating day.
type SimulationConfig struct {
	StartHour   float64 `koanf:"start_hour" json:"start_hour"`
	EndHour     float64 `koanf:"end_hour" json:"end_hour"`
	StepMinutes float64 `koanf:"step_minutes" json:"step_minutes"`
}

// Steps returns the number of fixed time steps in the simulated window.
func (s SimulationConfig) Steps() int {
	return int((s.EndHour-s.StartHour)*60.0/s.StepMinutes + 0.5)
}

// HubConfig describes the facility's electrical envelope.
type HubConfig struct {
	PowerCeilingKW   float64 `koanf:"power_ceiling_kw" json:"power_ceiling_kw"`
	BackgroundLoadKW float64 `koanf:"background_load_kw" json:"background_load_kw"`
}

// ThermalConfig parameterizes the hub temperature update applied every step.
type ThermalConfig struct {
	HeatAccumulation  float64 `koanf:"heat_accumulation" json:"heat_accumulation"`   // °C gained per kW of compute per step
	CoolingEfficiency float64 `koanf:"cooling_efficiency" json:"cooling_efficiency"` // °C removed per kW of cooling per step
	Dissipation       float64 `koanf:"dissipation" json:"dissipation"`               // passive loss factor toward ambient
}

// SolarConfig parameterizes the built-in photovoltaic generation model.
type SolarConfig struct {
	CapacityKW  float64 `koanf:"capacity_kw" json:"capacity_kw"`
	Efficiency  float64 `koanf:"efficiency" json:"efficiency"`
	SunriseHour float64 `koanf:"sunrise_hour" json:"sunrise_hour"`
	SunsetHour  float64 `koanf:"sunset_hour" json:"sunset_hour"`
}

// TemperatureConfig parameterizes the built-in diurnal temperature model.
type TemperatureConfig struct {
	MinC     float64 `koanf:"min_c" json:"min_c"`
	MaxC     float64 `koanf:"max_c" json:"max_c"`
	PeakHour float64 `koanf:"peak_hour" json:"peak_hour"`
}

// CoolingConfig parameterizes the cooling power model.
type CoolingConfig struct {
	FactorKWPerC float64 `koanf:"factor_kw_per_c" json:"factor_kw_per_c"` // cooling demand per °C above threshold
	LoadFactor   float64 `koanf:"load_factor" json:"load_factor"`         // cooling demand per kW of compute
	ThresholdC   float64 `koanf:"threshold_c" json:"threshold_c"`         // hub temperature where cooling kicks in
	COP          float64 `koanf:"cop" json:"cop"`                         // coefficient of performance
}

// CarbonConfig sets the grid carbon intensity used for emission accounting.
type CarbonConfig struct {
	GridIntensityKgPerKWh float64 `koanf:"grid_intensity_kg_per_kwh" json:"grid_intensity_kg_per_kwh"`
}

// PricingConfig sets per-unit prices used for the cost figure.
type PricingConfig struct {
	GridPerKWh    float64 `koanf:"grid_per_kwh" json:"grid_per_kwh"`
	CoolingPerKWh float64 `koanf:"cooling_per_kwh" json:"cooling_per_kwh"`
	CarbonPerKg   float64 `koanf:"carbon_per_kg" json:"carbon_per_kg"`
}

// SLAConfig sets the energy-equivalent penalty charged per missed deadline.
type SLAConfig struct {
	DeadlinePenaltyKWh float64 `koanf:"deadline_penalty_kwh" json:"deadline_penalty_kwh"`
}

// SchedulerConfig holds the smart policy's gating and bonus thresholds.
type SchedulerConfig struct {
	ThermalThresholdC float64 `koanf:"thermal_threshold_c" json:"thermal_threshold_c"` // low-priority jobs skipped above this
	MinSolarKW        float64 `koanf:"min_solar_kw" json:"min_solar_kw"`               // medium-priority jobs skipped below this
	GoodSolarKW       float64 `koanf:"good_solar_kw" json:"good_solar_kw"`             // medium-priority sort bonus above this
}

// ExperimentConfig holds defaults for randomized comparison batches.
type ExperimentConfig struct {
	Trials       int `koanf:"trials" json:"trials"`
	JobsPerTrial int `koanf:"jobs_per_trial" json:"jobs_per_trial"`
	Parallelism  int `koanf:"parallelism" json:"parallelism"`
}

// StorageConfig points at the experiment results database. Empty path
// disables persistence.
type StorageConfig struct {
	Path string `koanf:"path" json:"path"`
}

// ServerConfig configures the HTTP API daemon.
type ServerConfig struct {
	Addr         string        `koanf:"addr" json:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`
	BasePath     string        `koanf:"base_path" json:"base_path"`
}

// CacheConfig configures the comparison result cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" json:"ttl"`
}

// Default returns the built-in parameter set: a 24h day at 10-minute
// resolution, a 10 kW hub with rooftop solar, and pricing roughly matching
// an Indian grid profile.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{StartHour: 0, EndHour: 24, StepMinutes: 10},
		Hub:        HubConfig{PowerCeilingKW: 10, BackgroundLoadKW: 1},
		Thermal: ThermalConfig{
			HeatAccumulation:  0.02,
			CoolingEfficiency: 0.6,
			Dissipation:       0.05,
		},
		Solar: SolarConfig{
			CapacityKW:  8.0,
			Efficiency:  0.85,
			SunriseHour: 6,
			SunsetHour:  18,
		},
		Temperature: TemperatureConfig{MinC: 26, MaxC: 42, PeakHour: 14},
		Cooling: CoolingConfig{
			FactorKWPerC: 0.5,
			LoadFactor:   0.05,
			ThresholdC:   25,
			COP:          3.0,
		},
		Carbon:  CarbonConfig{GridIntensityKgPerKWh: 0.7},
		Pricing: PricingConfig{GridPerKWh: 6.0, CoolingPerKWh: 6.0, CarbonPerKg: 2.0},
		SLA:     SLAConfig{DeadlinePenaltyKWh: 0.5},
		Scheduler: SchedulerConfig{
			ThermalThresholdC: 35,
			MinSolarKW:        1.0,
			GoodSolarKW:       2.0,
		},
		Experiment: ExperimentConfig{Trials: 10, JobsPerTrial: 5, Parallelism: 4},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{TTL: 5 * time.Minute},
	}
}

// Load reads the YAML file at configPath on top of the defaults. An empty
// path returns the defaults unchanged.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values that would make a simulation
// meaningless before any loop starts.
func (c *Config) Validate() error {
	if c.Simulation.StepMinutes <= 0 {
		return fmt.Errorf("simulation.step_minutes must be positive")
	}
	if c.Simulation.EndHour <= c.Simulation.StartHour {
		return fmt.Errorf("simulation.end_hour must be after simulation.start_hour")
	}
	if c.Hub.PowerCeilingKW <= 0 {
		return fmt.Errorf("hub.power_ceiling_kw must be positive")
	}
	if c.Hub.BackgroundLoadKW < 0 {
		return fmt.Errorf("hub.background_load_kw must not be negative")
	}
	if c.Solar.Efficiency <= 0 || c.Solar.Efficiency > 1 {
		return fmt.Errorf("solar.efficiency must be in (0, 1]")
	}
	if c.Solar.SunsetHour <= c.Solar.SunriseHour {
		return fmt.Errorf("solar.sunset_hour must be after solar.sunrise_hour")
	}
	if c.Temperature.MaxC < c.Temperature.MinC {
		return fmt.Errorf("temperature.max_c must not be below temperature.min_c")
	}
	if c.Cooling.COP <= 0 {
		return fmt.Errorf("cooling.cop must be positive")
	}
	if c.SLA.DeadlinePenaltyKWh < 0 {
		return fmt.Errorf("sla.deadline_penalty_kwh must not be negative")
	}
	if c.Experiment.Trials < 0 || c.Experiment.JobsPerTrial < 0 {
		return fmt.Errorf("experiment.trials and experiment.jobs_per_trial must not be negative")
	}
	return nil
}
