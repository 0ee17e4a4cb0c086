// Command hubsim runs a one-day baseline-vs-smart scheduling comparison, or
// a randomized experiment batch, and prints the results as tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/greenhub/hubsim/internal/cache"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/datasource"
	"github.com/greenhub/hubsim/internal/logger"
	"github.com/greenhub/hubsim/internal/model"
	"github.com/greenhub/hubsim/internal/report"
	"github.com/greenhub/hubsim/internal/service"
	"github.com/greenhub/hubsim/internal/sim"
	"github.com/greenhub/hubsim/internal/store"
)

func main() {
	log := logger.NewCLI()

	if err := run(log); err != nil {
		log.Error("hubsim failed",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

// run is the single exit point, so deferred cleanup (the results database in
// particular) always executes.
func run(log *slog.Logger) error {
	configPath := flag.String("config", "", "path to configuration file (defaults apply when empty)")
	jobsPath := flag.String("jobs", "", "path to jobs CSV (a small demo job set is used when empty)")
	solarPath := flag.String("solar", "", "path to solar CSV (hour,solar_kw); built-in model when empty")
	tempPath := flag.String("temp", "", "path to temperature CSV (hour,temp_c); built-in model when empty")
	experiments := flag.Int("experiments", 0, "run this many randomized trials instead of one comparison")
	seed := flag.Int64("seed", 0, "experiment seed (0 = derive from clock)")
	dbPath := flag.String("db", "", "optional SQLite database to persist experiment summaries")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	modelSolar, modelTemp := sim.BuiltinSources(*cfg)
	solar := datasource.New("solar", *solarPath, modelSolar, log)
	temp := datasource.New("temperature", *tempPath, modelTemp, log)

	var db *store.Store
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("open results database %s: %w", *dbPath, err)
		}
		defer db.Close()
	}

	svc := service.New(*cfg, solar, temp, cache.New(cfg.Cache.TTL), db, log)
	ctx := context.Background()

	if *experiments > 0 {
		if *seed == 0 {
			*seed = time.Now().UnixNano()
		}
		batch, err := svc.RunExperiments(ctx, *experiments, cfg.Experiment.JobsPerTrial, *seed)
		if err != nil {
			return fmt.Errorf("experiment batch: %w", err)
		}

		fmt.Println(report.SummaryTable(batch.Summary))
		if db != nil {
			log.Info("experiment run persisted",
				slog.String("id", batch.ID),
			)
		}
		return nil
	}

	jobs, err := loadJobs(*jobsPath)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}

	cmp, err := svc.Compare(ctx, jobs)
	if err != nil {
		return fmt.Errorf("comparison: %w", err)
	}

	fmt.Println(report.ComparisonTable(cmp))
	fmt.Println(report.TimelineTable("baseline", cmp.Baseline.Timeline))
	fmt.Println(report.TimelineTable("smart", cmp.Smart.Timeline))
	return nil
}

func loadJobs(path string) ([]*model.Job, error) {
	if path != "" {
		return datasource.LoadJobsCSV(path)
	}
	return demoJobs()
}

// demoJobs is the default mixed workload: one critical training run, one
// flexible daytime batch and one overnight-tolerant backup.
func demoJobs() ([]*model.Job, error) {
	specs := []struct {
		name     string
		powerKW  float64
		duration float64
		priority string
		deadline float64
	}{
		{"ai-training", 3.5, 120, "high", 18},
		{"video-processing", 2.0, 60, "medium", 20},
		{"data-backup", 1.2, 90, "low", 23},
	}

	jobs := make([]*model.Job, 0, len(specs))
	for _, s := range specs {
		deadline := s.deadline
		job, err := model.NewJob(s.name, s.powerKW, s.duration, s.priority, &deadline)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
