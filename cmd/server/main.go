package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"claimcountdown.app/server/common/id"
	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/common/otel"
	"claimcountdown.app/server/core/config"
	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/cache"
	"claimcountdown.app/server/internal/http/middleware"
	httprouter "claimcountdown.app/server/internal/http/router"
	"claimcountdown.app/server/internal/mailer"
	"claimcountdown.app/server/internal/service"
	"claimcountdown.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "claimcountdown server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
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

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	var denylist service.TokenDenylist = cache.NoopDenylist{}
	if cfg.Redis.Enabled() {
		redisClient, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		denylist = cache.NewRedisDenylist(redisClient)
		slog.InfoContext(ctx, "redis connected")
	} else {
		slog.WarnContext(ctx, "redis disabled, logout will not revoke tokens")
	}

	services := service.NewServices(
		store.NewStores(database.Conn()),
		service.NewTxRunner(database),
		service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, nil),
		denylist,
		newMailer(ctx, cfg.Mail),
		cfg.FrontendURL,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	return router
}

func newMailer(ctx context.Context, cfg config.MailConfig) mailer.Mailer {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "RESEND_API_KEY not set, emails will only be logged")
		return mailer.LogMailer{}
	}
	return mailer.WithTimeout(mailer.NewResendMailer(cfg.ResendAPIKey, cfg.From), cfg.SendTimeout)
}

const banner = `
  ___ _      _           ___                 _      _
 / __| |__ _(_)_ __     / __|___ _  _ _ _  _| |_ __| |_____ __ ___ _
| (__| / _' | | '  \   | (__/ _ \ || | ' \|  _/ _' / _ \ V  V / ' \
 \___|_\__,_|_|_|_|_|   \___\___/\_,_|_||_|\__\__,_\___/\_/\_/|_||_|
`
