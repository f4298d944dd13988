package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"claimcountdown.app/server/internal/model"
)

type Runner interface {
	RunOnce(ctx context.Context, freq model.AlertFrequency) (RunSummary, error)
}

type SchedulerConfig struct {
	WeeklySpec string
	DailySpec  string
	Location   *time.Location
}

// Scheduler triggers the weekly and daily digest runs on standard five-field
// cron specs. A run still in progress when its next trigger fires is skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	cfg    SchedulerConfig
}

func NewScheduler(runner Runner, cfg SchedulerConfig) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	log := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		runner: runner,
		cfg:    cfg,
	}
}

// Start registers both jobs and starts the cron loop. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		spec string
		freq model.AlertFrequency
	}{
		{s.cfg.WeeklySpec, model.AlertFrequencyWeekly},
		{s.cfg.DailySpec, model.AlertFrequencyDaily},
	}

	for _, j := range jobs {
		freq := j.freq
		if _, err := s.cron.AddFunc(j.spec, func() { s.run(ctx, freq) }); err != nil {
			return fmt.Errorf("scheduling %s digest %q: %w", freq, j.spec, err)
		}
	}

	s.cron.Start()
	for _, e := range s.cron.Entries() {
		slog.InfoContext(ctx, "digest job scheduled", "next_run", e.Next)
	}
	return nil
}

// Stop stops scheduling and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.WarnContext(ctx, "digest run still in progress at shutdown")
	}
}

func (s *Scheduler) run(ctx context.Context, freq model.AlertFrequency) {
	if _, err := s.runner.RunOnce(ctx, freq); err != nil {
		slog.ErrorContext(ctx, "digest run failed", "frequency", freq, "error", err)
	}
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
