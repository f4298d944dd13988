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

	"claimcountdown.app/server/common/id"
	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/common/otel"
	"claimcountdown.app/server/core/config"
	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/cache"
	"claimcountdown.app/server/internal/digest"
	"claimcountdown.app/server/internal/mailer"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
	"claimcountdown.app/server/internal/worker"
)

func main() {
	runOnce := flag.String("run-once", "", "send one digest run for the given frequency (weekly or daily) and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "claimcountdown worker starting", "env", cfg.Env)

	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	var ledger cache.Ledger = cache.NoopLedger{}
	if cfg.Redis.Enabled() {
		redisClient, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		ledger = cache.NewRedisLedger(redisClient)
		slog.InfoContext(ctx, "redis connected, digest ledger enabled")
	} else {
		slog.WarnContext(ctx, "redis disabled, repeated triggers may resend digests")
	}

	notifier := worker.NewNotifier(
		store.NewStores(database.Conn()),
		digest.NewBuilder(cfg.FrontendURL),
		newMailer(ctx, cfg.Mail),
		ledger,
		time.Now,
	)

	if *runOnce != "" {
		summary, err := notifier.RunOnce(ctx, model.AlertFrequency(*runOnce))
		shutdownTelemetry(ctx, telemetry)
		if err != nil {
			slog.ErrorContext(ctx, "digest run failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("recipients=%d sent=%d skipped=%d failed=%d\n",
			summary.Recipients, summary.Sent, summary.Skipped, summary.Failed)
		return
	}

	loc, err := cfg.Notifier.Location()
	if err != nil {
		slog.ErrorContext(ctx, "invalid notifier timezone", "timezone", cfg.Notifier.Timezone, "error", err)
		os.Exit(1)
	}

	runCtx, cancelRuns := context.WithCancel(ctx)
	defer cancelRuns()

	scheduler := worker.NewScheduler(notifier, worker.SchedulerConfig{
		WeeklySpec: cfg.Notifier.WeeklySchedule,
		DailySpec:  cfg.Notifier.DailySchedule,
		Location:   loc,
	})
	if err := scheduler.Start(runCtx); err != nil {
		slog.ErrorContext(ctx, "failed to start scheduler", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "scheduler started", "timezone", loc.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	cancelRuns()

	shutdownTelemetry(shutdownCtx, telemetry)
	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func newMailer(ctx context.Context, cfg config.MailConfig) mailer.Mailer {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "RESEND_API_KEY not set, digests will only be logged")
		return mailer.LogMailer{}
	}
	return mailer.WithTimeout(mailer.NewResendMailer(cfg.ResendAPIKey, cfg.From), cfg.SendTimeout)
}

func shutdownTelemetry(ctx context.Context, telemetry *otel.Telemetry) {
	if telemetry == nil {
		return
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "otel shutdown error", "error", err)
	}
}
