package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "content-collector/internal/config"
	hhttp "content-collector/internal/handler/http"
	hcollect "content-collector/internal/handler/http/collect"
	pgRepo "content-collector/internal/infra/adapter/persistence/postgres"
	"content-collector/internal/infra/db"
	"content-collector/internal/infra/extractor"
	"content-collector/internal/infra/fetcher"
	"content-collector/internal/observability/logging"
	"content-collector/internal/observability/tracing"
	collectUC "content-collector/internal/usecase/collect"
	"content-collector/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupRoutes(logger, database)
	runServer(logger, handler)
}

// setupRoutes wires the collection service and registers every route.
func setupRoutes(logger *slog.Logger, database *sql.DB) http.Handler {
	cfg := appconfig.Load()

	client := fetcher.New(fetcher.Config{
		Timeout:        cfg.RequestTimeout,
		UserAgent:      cfg.UserAgent,
		MaxBodySize:    cfg.MaxBodySize,
		DenyPrivateIPs: true,
	})

	profiles := extractor.DefaultProfiles()
	if cfg.SiteProfilesPath != "" {
		if err := profiles.LoadOverrides(cfg.SiteProfilesPath); err != nil {
			logger.Warn("failed to load site profile overrides, using built-ins",
				slog.String("path", cfg.SiteProfilesPath),
				slog.Any("error", err))
		}
	}

	feeds := extractor.NewFeedExtractor(client, cfg.MinContentLength, cfg.MaxContentLength)
	articles := extractor.NewArticleExtractor(client, profiles, cfg.RequestDelay, cfg.MinContentLength, cfg.MaxContentLength)

	svc := collectUC.NewService(
		pgRepo.NewSourceRepo(database),
		pgRepo.NewContentRepo(database),
		feeds,
		articles,
		collectUC.NewTaskStore(),
		cfg.RequestDelay,
		cfg.MaxFeedItems,
		cfg.MaxArticles,
	)

	mux := http.NewServeMux()
	hcollect.Register(mux, svc)
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version()})
	mux.Handle("GET /metrics", promhttp.Handler())
	return tracing.Middleware(hhttp.MetricsMiddleware(mux))
}

func version() string {
	return config.GetEnvString("APP_VERSION", "dev")
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("LISTEN_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
