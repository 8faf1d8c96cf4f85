// Ideas portal: submit, discuss and triage improvement ideas.
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

	"github.com/d9705996/ideaportal/internal/analytics"
	portalapi "github.com/d9705996/ideaportal/internal/api"
	"github.com/d9705996/ideaportal/internal/api/handler"
	"github.com/d9705996/ideaportal/internal/api/middleware"
	"github.com/d9705996/ideaportal/internal/cache"
	"github.com/d9705996/ideaportal/internal/config"
	"github.com/d9705996/ideaportal/internal/db"
	"github.com/d9705996/ideaportal/internal/engagement"
	"github.com/d9705996/ideaportal/internal/health"
	"github.com/d9705996/ideaportal/internal/ideas"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/notes"
	"github.com/d9705996/ideaportal/internal/notify"
	"github.com/d9705996/ideaportal/internal/observability"
	"github.com/d9705996/ideaportal/internal/seed"
	"github.com/d9705996/ideaportal/internal/store"
	"github.com/d9705996/ideaportal/internal/users"
	"github.com/d9705996/ideaportal/internal/version"
	"github.com/d9705996/ideaportal/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability -------------------------------------------------------
	obs, log, err := observability.New(ctx, &observability.Config{
		ServiceName:    "ideaportal",
		ServiceVersion: version.Version,
		LogLevel:       cfg.Log.Level,
		LogFormat:      cfg.Log.Format,
		OTLPEndpoint:   cfg.OTel.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer obs.Shutdown(context.Background())
	log.Info("starting ideaportal", "version", version.Version, "commit", version.Commit, "db_driver", cfg.DB.Driver)

	// --- Database ------------------------------------------------------------
	// db.New opens the connection, runs migrations (AutoMigrate for SQLite,
	// golang-migrate for Postgres), and returns the GORM handle plus an
	// optional pgxpool (non-nil only for postgres, used by River).
	gormDB, pool, err := db.New(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if pool != nil {
		defer pool.Close()
	}
	log.Info("database ready", "driver", cfg.DB.Driver)
	st := store.New(gormDB)

	// --- Seed admin ----------------------------------------------------------
	if err := seed.EnsureAdmin(ctx, st, seed.AdminOptions{
		ID:    cfg.App.SeedAdminID,
		Email: cfg.App.SeedAdminEmail,
	}, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// --- Analytics cache -----------------------------------------------------
	var (
		analyticsCache cache.Cache = cache.NewMemory()
		cachePinger    health.Pinger
	)
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rc.Close() }()
		analyticsCache, cachePinger = rc, rc
		log.Info("analytics cache: redis")
	}

	// --- Services ------------------------------------------------------------
	notifier := notify.New(st, cfg.Notifications.PageSize, log)
	stats := analytics.New(st, analyticsCache, cfg.Analytics.CacheTTL, log)
	ideaSvc := ideas.New(st, notifier, stats.Invalidate, log)
	engageSvc := engagement.New(st, log)
	notesSvc := notes.New(st, log)
	userSvc := users.New(st, log)

	// --- Worker queue --------------------------------------------------------
	// River migrations only run when Postgres is available.
	if pool != nil {
		if err := worker.MigrateRiver(ctx, pool); err != nil {
			return fmt.Errorf("river migrations: %w", err)
		}
		log.Info("river migrations applied")
	}

	wq, err := worker.New(pool, worker.Options{
		Driver:      cfg.DB.Driver,
		Concurrency: cfg.Worker.Concurrency,
		Retention:   cfg.Notifications.Retention,
		Purger:      notifier,
	}, log)
	if err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	if err := wq.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := wq.Stop(stopCtx); err != nil {
			log.Error("worker stop error", "err", err)
		}
	}()

	// --- HTTP routes ---------------------------------------------------------
	mux := http.NewServeMux()
	portalapi.RegisterRoutes(mux, portalapi.Handlers{
		Health:        health.New(db.NewPinger(gormDB), cachePinger),
		Ideas:         handler.NewIdeaHandler(ideaSvc, engageSvc, notesSvc, log),
		Engagement:    handler.NewEngagementHandler(engageSvc, log),
		Notes:         handler.NewNotesHandler(notesSvc, log),
		Notifications: handler.NewNotificationHandler(notifier, log),
		Users:         handler.NewUserHandler(userSvc, log),
		Analytics:     handler.NewAnalyticsHandler(stats, log),
	}, &middleware.Authenticator{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Users:  userSvc,
		Log:    log,
	})
	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      newHandler(mux, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Start server --------------------------------------------------------
	log.Info("http server listening", "addr", srv.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped cleanly")
	return nil
}

// newHandler wraps mux with tracing, request logging and Prometheus
// metrics. The metrics middleware sits directly on the mux so it can read
// the matched route pattern.
func newHandler(mux *http.ServeMux, log *slog.Logger) http.Handler {
	h := metrics.HTTPMiddleware(mux)
	h = middleware.RequestLogger(log)(h)
	return otelhttp.NewHandler(h, "ideaportal")
}
