// Command hubsimd serves the simulator over HTTP: comparisons, experiment
// batches and environmental profiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenhub/hubsim/internal/api"
	"github.com/greenhub/hubsim/internal/cache"
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/datasource"
	"github.com/greenhub/hubsim/internal/logger"
	"github.com/greenhub/hubsim/internal/service"
	"github.com/greenhub/hubsim/internal/sim"
	"github.com/greenhub/hubsim/internal/store"
	"github.com/greenhub/hubsim/pkg/httpserver"
)

func main() {
	log := logger.New()

	if err := run(log); err != nil {
		log.Error("hubsimd failed",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

// run is the single exit point, so the results database is always closed on
// the way out.
func run(log *slog.Logger) error {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	solarPath := flag.String("solar", "", "path to solar CSV; built-in model when empty")
	tempPath := flag.String("temp", "", "path to temperature CSV; built-in model when empty")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log.Info("configuration loaded",
		slog.Float64("power_ceiling_kw", cfg.Hub.PowerCeilingKW),
		slog.Float64("step_minutes", cfg.Simulation.StepMinutes),
	)

	modelSolar, modelTemp := sim.BuiltinSources(*cfg)
	solar := datasource.New("solar", *solarPath, modelSolar, log)
	temp := datasource.New("temperature", *tempPath, modelTemp, log)

	var db *store.Store
	if cfg.Storage.Path != "" {
		db, err = store.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open results database %s: %w", cfg.Storage.Path, err)
		}
		defer db.Close()

		log.Info("results database opened",
			slog.String("path", cfg.Storage.Path),
		)
	}

	svc := service.New(*cfg, solar, temp, cache.New(cfg.Cache.TTL), db, log)
	handler := api.NewHandler(svc, cfg.Server.BasePath, log)

	srv := httpserver.New(
		cfg.Server.Addr,
		handler.Router(),
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		log,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Run()
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-quit:
		log.Info("received shutdown signal",
			slog.String("signal", sig.String()),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	log.Info("shutdown complete")
	return nil
}
