package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/ski-conditions/internal/log"
	"github.com/i474232898/ski-conditions/internal/metrics"
	"github.com/i474232898/ski-conditions/internal/weather"
)

const defaultInterval = 15 * time.Minute

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) weather.FleetResult
}

// Scheduler periodically refreshes forecasts for all configured locations.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	refresher    Refresher
	recorder     metrics.Recorder
	interval     time.Duration
	cycleTimeout time.Duration
}

// New creates a new Scheduler. cycleTimeout bounds the fetches of one cycle.
func New(interval, cycleTimeout time.Duration, refresher Refresher, recorder metrics.Recorder) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if cycleTimeout <= 0 || cycleTimeout > interval {
		cycleTimeout = interval
	}

	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		refresher:    refresher,
		recorder:     recorder,
		interval:     interval,
		cycleTimeout: cycleTimeout,
	}
}

// Start schedules the recurring cycle, running the first one immediately.
// Cycles never overlap.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.RunCycle)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunCycle performs one refresh and reports its outcome.
func (s *Scheduler) RunCycle() {
	log.Info("scheduler: running forecast refresh cycle")

	ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
	defer cancel()

	start := time.Now()
	result := s.refresher.Refresh(ctx)
	elapsed := time.Since(start)

	s.recorder.ObserveCycle(result, elapsed)

	failed := result.Failures()
	switch {
	case len(result.Entries) > 0 && failed == len(result.Entries):
		log.Errorf("scheduler: all %d locations failed in cycle %s", failed, result.CycleID)
	case failed > 0:
		log.Warnf("scheduler: cycle %s completed with %d/%d failed locations in %s", result.CycleID, failed, len(result.Entries), elapsed)
	default:
		log.Infow("scheduler: cycle completed",
			"cycle", result.CycleID,
			"locations", len(result.Entries),
			"elapsed", elapsed,
		)
	}
}

// Stop stops the scheduler and cancels any future cycles.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
