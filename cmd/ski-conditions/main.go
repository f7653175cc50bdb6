package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/ski-conditions/internal/api/http"
	"github.com/i474232898/ski-conditions/internal/config"
	"github.com/i474232898/ski-conditions/internal/log"
	"github.com/i474232898/ski-conditions/internal/metrics"
	"github.com/i474232898/ski-conditions/internal/scheduler"
	"github.com/i474232898/ski-conditions/internal/store"
	"github.com/i474232898/ski-conditions/internal/weather"
	"github.com/i474232898/ski-conditions/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := log.Init(cfg.Debug); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer log.Sync()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.ForecastDays)
	service := weather.NewService(provider, cfg.Resorts, cfg.ForecastDays)
	recorder := metrics.New(cfg.MetricsEnabled)

	// Scheduler that periodically refreshes every resort.
	sched := scheduler.New(cfg.FetchInterval, cfg.CycleTimeout, service, recorder)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	selections := store.NewSelectionStore(cfg.SelectionTTL)
	cache := store.NewComparisonCache(cfg.CacheSizeMB, int(cfg.FetchInterval.Seconds()))
	app := httpapi.NewApp(httpapi.NewHandler(service, selections, cache), recorder, cfg.Debug)

	go func() {
		log.Infof("listening on :%s, tracking %d resorts", cfg.Port, len(cfg.Resorts))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
