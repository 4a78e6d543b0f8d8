package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	notificationApp "github.com/sonar-shubham/radiant-salon/internal/application/notification"
	"github.com/sonar-shubham/radiant-salon/internal/bootstrap"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/postgres"
	infraRedis "github.com/sonar-shubham/radiant-salon/internal/infrastructure/redis"
	"github.com/sonar-shubham/radiant-salon/internal/worker"
)

const janitorInterval = time.Hour

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "salon-worker", "salon_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	workerCfg := app.Config.Worker

	// --- Repositories ---
	notificationRepo := postgres.NewNotificationRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)
	credentialStore := postgres.NewCredentialStore(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)
	streamProducer := infraRedis.NewStreamProducer(app.Redis)

	// --- Use cases ---
	sendNotificationUC := notificationApp.NewSendNotificationUseCase(notificationRepo, app.Dispatcher(), credentialStore, app.Logger)

	// --- Notification stream consumer ---
	consumer := infraRedis.NewStreamConsumer(
		app.Redis,
		infraRedis.NotificationStream,
		workerCfg.ConsumerGroup,
		app.Config.InstanceID,
		workerCfg.BatchSize,
		workerCfg.BlockDuration,
	)
	if err := consumer.CreateGroup(ctx); err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create consumer group")
	}

	locks := func(key string) worker.Locker {
		return infraRedis.NewDistributedLock(app.Redis, key, workerCfg.LockTTL)
	}
	notifications := worker.NewNotificationConsumer(
		consumer,
		streamProducer,
		locks,
		sendNotificationUC,
		worker.ConsumerConfig{
			DispatchTimeout: workerCfg.DispatchTimeout,
			MinIdle:         2 * workerCfg.LockTTL,
		},
		app.Metrics,
		app.Logger,
	)
	relay := worker.NewOutboxRelay(outboxRepo, streamProducer, txManager, int(workerCfg.BatchSize), app.Metrics, app.Logger)
	janitor := worker.NewJanitor(outboxRepo, idempotencyRepo, 0, app.Logger)

	app.Logger.Info().
		Str("stream", infraRedis.NotificationStream).
		Str("group", workerCfg.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Msg("Worker started, listening for messages...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Notification dispatcher (reads from Redis Streams).
	g.Go(func() error {
		return notifications.Run(gCtx)
	})

	// 2. Outbox relay (polls the outbox table and publishes to Redis Streams).
	g.Go(func() error {
		return relay.Run(gCtx, workerCfg.OutboxPollInterval)
	})

	// 3. Retention cleanup.
	g.Go(func() error {
		return janitor.Run(gCtx, janitorInterval)
	})

	// 4. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}
