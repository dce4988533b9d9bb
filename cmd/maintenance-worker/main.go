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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/detailpro/detailpro-backend/internal/maintenance"
	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/instance"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/metrics"
	"github.com/detailpro/detailpro-backend/pkg/migrate"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/redis"
)

const lockKeyFormat = "detailpro:maintenance:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "maintenance-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "maintenance-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "maintenance worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "maintenance worker shut down gracefully")
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	reg := prometheus.NewRegistry()
	outboxRetention, err := maintenance.NewRetentionJob(
		maintenance.OutboxRetentionJobName, dbClient,
		outbox.NewRepository(dbClient.DB()).DeletePublishedBefore,
		cfg.Maintenance.OutboxRetentionDays,
	)
	if err != nil {
		return err
	}
	dlqRetention, err := maintenance.NewRetentionJob(
		maintenance.DLQRetentionJobName, dbClient,
		outbox.NewDLQRepository(dbClient.DB()).DeleteFailedBefore,
		cfg.Maintenance.DLQRetentionDays,
	)
	if err != nil {
		return err
	}

	lock, err := maintenance.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Maintenance.LockTTL)
	if err != nil {
		return err
	}
	runner, err := maintenance.NewRunner(maintenance.RunnerParams{
		Logger:   logg,
		Lock:     lock,
		Metrics:  metrics.NewMaintenanceMetrics(reg),
		Interval: cfg.Maintenance.Interval,
		Jobs:     []maintenance.Job{outboxRetention, dlqRetention},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Maintenance.Interval.String(),
		"instance": instance.ID(),
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if serveErr := metricsServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener stopped", serveErr)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, metricsServer.Shutdown(shutdownCtx))
	}()

	logg.Info(ctx, "starting maintenance worker")
	if runErr := runner.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
