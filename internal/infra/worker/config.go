// Package worker holds the scheduled-collection worker's configuration,
// health endpoints, and job metrics.
package worker

import (
	"log/slog"
	"time"

	"content-collector/pkg/config"
)

// Config controls the scheduled collection worker.
type Config struct {
	// CronSchedule is a standard five-field cron expression.
	CronSchedule string
	// Timezone interprets the schedule; defaults to UTC.
	Timezone string
	// CollectTimeout bounds a single scheduled collection run.
	CollectTimeout time.Duration
	// HealthPort serves liveness and readiness probes.
	HealthPort int
	// MetricsPort serves the Prometheus endpoint.
	MetricsPort int
}

// LoadConfig reads worker configuration from the environment.
func LoadConfig() Config {
	cfg := Config{
		CronSchedule:   config.GetEnvString("COLLECT_CRON", "0 * * * *"),
		Timezone:       config.GetEnvString("COLLECT_TIMEZONE", "UTC"),
		CollectTimeout: config.GetEnvDuration("COLLECT_TIMEOUT", 30*time.Minute),
		HealthPort:     config.GetEnvInt("WORKER_HEALTH_PORT", 9091),
		MetricsPort:    config.GetEnvInt("WORKER_METRICS_PORT", 9092),
	}

	slog.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("collect_timeout", cfg.CollectTimeout),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("metrics_port", cfg.MetricsPort))

	return cfg
}
