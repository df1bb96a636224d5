package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	appconfig "content-collector/internal/config"
	"content-collector/internal/domain/entity"
	"content-collector/internal/handler/http/respond"
	pgRepo "content-collector/internal/infra/adapter/persistence/postgres"
	"content-collector/internal/infra/db"
	"content-collector/internal/infra/extractor"
	"content-collector/internal/infra/fetcher"
	workerPkg "content-collector/internal/infra/worker"
	"content-collector/internal/observability/logging"
	collectUC "content-collector/internal/usecase/collect"
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
	waitForMigrations(logger, database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appconfig.Load()
	workerCfg := workerPkg.LoadConfig()
	jobMetrics := workerPkg.NewMetrics()

	svc := buildService(logger, database, cfg)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return startMetricsServer(ctx, logger, fmt.Sprintf(":%d", workerCfg.MetricsPort))
	})
	g.Go(func() error {
		return runScheduler(ctx, logger, svc, workerCfg, jobMetrics, healthServer)
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// buildService wires the collection service with its extractors and repositories.
func buildService(logger *slog.Logger, database *sql.DB, cfg appconfig.Collector) *collectUC.Service {
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
		} else {
			logger.Info("site profile overrides loaded",
				slog.String("path", cfg.SiteProfilesPath))
		}
	}

	feeds := extractor.NewFeedExtractor(client, cfg.MinContentLength, cfg.MaxContentLength)
	articles := extractor.NewArticleExtractor(client, profiles, cfg.RequestDelay, cfg.MinContentLength, cfg.MaxContentLength)

	return collectUC.NewService(
		pgRepo.NewSourceRepo(database),
		pgRepo.NewContentRepo(database),
		feeds,
		articles,
		collectUC.NewTaskStore(),
		cfg.RequestDelay,
		cfg.MaxFeedItems,
		cfg.MaxArticles,
	)
}

// runScheduler runs the cron loop until the context is cancelled.
func runScheduler(ctx context.Context, logger *slog.Logger, svc *collectUC.Service, cfg workerPkg.Config, jobMetrics *workerPkg.Metrics, health *workerPkg.HealthServer) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runCollectJob(ctx, logger, svc, cfg, jobMetrics)
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	health.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	health.SetReady(false)
	<-c.Stop().Done()
	return nil
}

// runCollectJob starts one collection over every active source and waits for
// it to reach a terminal state.
func runCollectJob(ctx context.Context, logger *slog.Logger, svc *collectUC.Service, cfg workerPkg.Config, jobMetrics *workerPkg.Metrics) {
	start := time.Now()
	jobMetrics.RecordJobRun("started")
	logger.Info("scheduled collection started")

	ctx, cancel := context.WithTimeout(ctx, cfg.CollectTimeout)
	defer cancel()

	taskID, err := svc.StartTask(ctx, collectUC.StartInput{})
	if err != nil {
		logger.Error("scheduled collection failed to start",
			slog.String("error", respond.SanitizeError(err)))
		jobMetrics.RecordJobRun("failure")
		jobMetrics.RecordJobDuration(time.Since(start))
		return
	}

	task, ok := waitForTask(ctx, svc, taskID)
	jobMetrics.RecordJobDuration(time.Since(start))

	switch {
	case !ok:
		logger.Error("scheduled collection timed out",
			slog.String("task_id", taskID),
			slog.Duration("timeout", cfg.CollectTimeout))
		jobMetrics.RecordJobRun("failure")
	case task.Status == entity.TaskError:
		logger.Error("scheduled collection failed",
			slog.String("task_id", taskID),
			slog.String("error", task.ErrorMessage))
		jobMetrics.RecordJobRun("failure")
	default:
		jobMetrics.RecordJobRun("success")
		jobMetrics.RecordLastSuccess()
		logger.Info("scheduled collection completed",
			slog.String("task_id", taskID),
			slog.Int("items_stored", task.ItemsStored),
			slog.Duration("duration", time.Since(start)))
	}
}

// waitForTask polls until the task is terminal or the context expires.
func waitForTask(ctx context.Context, svc *collectUC.Service, taskID string) (entity.CollectionTask, bool) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		if task, ok := svc.Status(taskID); ok && task.Status.Terminal() {
			return task, true
		}
		select {
		case <-ctx.Done():
			return entity.CollectionTask{}, false
		case <-ticker.C:
		}
	}
}

// startMetricsServer serves the Prometheus endpoint until ctx is cancelled.
func startMetricsServer(ctx context.Context, logger *slog.Logger, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("metrics server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
