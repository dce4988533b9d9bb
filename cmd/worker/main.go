package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/detailpro/detailpro-backend/internal/analytics"
	"github.com/detailpro/detailpro-backend/internal/businesses"
	"github.com/detailpro/detailpro-backend/internal/notifications"
	"github.com/detailpro/detailpro-backend/internal/quotes"
	"github.com/detailpro/detailpro-backend/pkg/bigquery"
	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/instance"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/mailer"
	"github.com/detailpro/detailpro-backend/pkg/outbox/idempotency"
	"github.com/detailpro/detailpro-backend/pkg/pubsub"
	"github.com/detailpro/detailpro-backend/pkg/redis"
)

const processedTTL = 7 * 24 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "worker shutting down gracefully")
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	pubsubClient, err := pubsub.NewClient(bootCtx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, pubsubClient.Close()) }()

	bqClient, err := bigquery.NewClient(bootCtx, cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, bqClient.Close()) }()

	guard, err := idempotency.NewManager(redisClient, processedTTL)
	if err != nil {
		return err
	}
	alerts, err := notifications.NewConsumer(notifications.ConsumerParams{
		Subscription: pubsubClient.OwnerAlertsSubscription(),
		Guard:        guard,
		Quotes:       quotes.NewRepository(dbClient.DB()),
		Businesses:   businesses.NewRepository(dbClient.DB()),
		Mailer:       mailer.New(cfg.Mail, logg),
		QuoteURL:     cfg.Quotes.PublicQuoteURL,
		Logger:       logg,
	})
	if err != nil {
		return err
	}

	writer, err := analytics.NewWriter(bqClient, analytics.RetryPolicy{})
	if err != nil {
		return err
	}
	events, err := analytics.NewConsumer(analytics.ConsumerParams{
		Subscription: pubsubClient.AnalyticsSubscription(),
		Guard:        guard,
		Writer:       writer,
		Logger:       logg,
	})
	if err != nil {
		return err
	}

	service, err := NewService(ServiceParams{
		Logger: logg,
		Checks: map[string]pinger{
			"database": dbClient.Ping,
			"redis":    redisClient.Ping,
			"bigquery": bqClient.Ping,
			"pubsub": func(ctx context.Context) error {
				return multierr.Combine(
					pubsubClient.EnsureSubscription(ctx, cfg.PubSub.OwnerAlertsSubscription),
					pubsubClient.EnsureSubscription(ctx, cfg.PubSub.AnalyticsSubscription),
				)
			},
		},
		Consumers: map[string]consumer{
			"owner-alerts":    alerts,
			"quote-analytics": events,
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.ID(),
	})
	logg.Info(ctx, "starting event worker")
	return service.Run(ctx)
}
