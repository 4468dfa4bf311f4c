package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/landing-leads/internal/api/router"
	"github.com/wolfman30/landing-leads/internal/app/bootstrap"
	appconfig "github.com/wolfman30/landing-leads/internal/config"
	"github.com/wolfman30/landing-leads/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/landing-leads/internal/http/middleware"
	"github.com/wolfman30/landing-leads/internal/leads"
	"github.com/wolfman30/landing-leads/internal/observability/metrics"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting landing-leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"lead_store", cfg.LeadStore,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server exited gracefully")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// buildHandler wires store, limiters, notifications and routes.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	repo, closeRepo, err := bootstrap.BuildLeadRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		closeRepo()
	}
	limiters := bootstrap.BuildLimiters(cfg, redisClient, logger)

	metricsHandler, leadMetrics := setupLeadMetrics()

	sender, err := bootstrap.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	notifier := bootstrap.BuildNotifier(cfg, sender, leadMetrics, logger)

	adminAuth, err := httpmiddleware.NewBasicAuthenticator(cfg.AdminUser, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if !adminAuth.Configured() {
		logger.Warn("ADMIN_USER/ADMIN_PASSWORD not set; admin endpoints will reject every request")
	}

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Repo:          repo,
		Limiter:       limiters.Leads,
		Notifier:      notifier,
		Metrics:       leadMetrics,
		Logger:        logger,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminAuth:          adminAuth,
		AdminAuthHandler:   handlers.NewAdminAuthHandler(adminAuth, logger),
		AdminLimiter:       limiters.Admin,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return r, cleanup, nil
}

func setupLeadMetrics() (http.Handler, *metrics.LeadMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	leadMetrics := metrics.NewLeadMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), leadMetrics
}
