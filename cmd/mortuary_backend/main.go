package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/cache"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/services"
	"github.com/SscSPs/mortuary_billing_app/internal/handlers"
	"github.com/SscSPs/mortuary_billing_app/internal/metrics"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
	"github.com/SscSPs/mortuary_billing_app/internal/platform/config"
	"github.com/SscSPs/mortuary_billing_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/mortuary_billing_app/internal/scheduler"
	"github.com/SscSPs/mortuary_billing_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

// @title Mortuary Billing API
// @version 1.0
// @description Back office API for mortuary case billing: storage accrual, coffins, extra charges, payments and reconciliation.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established")

	logger.Info("Running database migrations", slog.String("source", cfg.MigrationsPath))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	clk := clock.New()
	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, services.Infrastructure{
		Clock:     clk,
		Metrics:   recorder,
		CaseCache: cache.NewCaseCache(cfg.CaseCacheSize, cfg.CaseCacheTTL),
	})

	var sched *scheduler.Scheduler
	if cfg.ReconcileEnabled {
		sched = scheduler.New(serviceContainer.Reconciliation, scheduler.Config{
			Interval:     cfg.ReconcileInterval,
			StartupDelay: cfg.ReconcileStartupDelay,
			RunTimeout:   cfg.ReconcileRunTimeout,
		}, clk, logger)
		serviceContainer.Trigger = sched
		go sched.Start(ctx)
	} else {
		logger.Warn("Background reconciliation disabled")
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Routes registered below are rate limited; /metrics is not.
	r.Use(middleware.RateLimit(rateLimiter))
	handlers.RegisterRoutes(r, cfg, serviceContainer, clk)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if sched != nil {
		// Start has returned on ctx cancel; wait for an in-flight batch.
		sched.Wait()
	}
	logger.Info("Server stopped")
	return nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	return c
}
