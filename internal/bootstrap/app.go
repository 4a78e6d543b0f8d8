package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/postgres"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/razorpay"
	infraRedis "github.com/sonar-shubham/radiant-salon/internal/infrastructure/redis"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/resilience"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/whatsapp"
)

type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, serviceName, cfg.InstanceID, os.Stdout)
	logger.Info().Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	redisClient, err := infraRedis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("Connected to Redis")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Metrics: metrics,
	}, nil
}

// PaymentGateway builds the Razorpay client wrapped for metrics, the circuit
// breaker and read retries. Retries sit outermost so an open breaker fails
// each attempt fast.
func (a *App) PaymentGateway() resilience.Gateway {
	return BuildGateway(razorpay.NewClient(a.Config.Razorpay), a.Config.Resilience, a.Metrics, a.Logger)
}

// Dispatcher builds the WhatsApp client wrapped for metrics and the breaker.
// Sends are never retried here; redelivery is owned by the stream consumer.
func (a *App) Dispatcher() resilience.Dispatcher {
	return BuildDispatcher(whatsapp.NewClient(a.Config.WhatsApp), a.Config.Resilience, a.Metrics, a.Logger)
}

func BuildGateway(client resilience.Gateway, cfg config.ResilienceConfig, metrics *observability.Metrics, logger zerolog.Logger) resilience.Gateway {
	var gw resilience.Gateway = resilience.NewMeteredGateway(client, metrics)
	if cfg.CircuitBreakerEnabled {
		gw = resilience.NewGatewayBreaker(gw, cfg, metrics, logger)
	}
	return resilience.NewRetryingGateway(gw, cfg, logger)
}

func BuildDispatcher(client resilience.Dispatcher, cfg config.ResilienceConfig, metrics *observability.Metrics, logger zerolog.Logger) resilience.Dispatcher {
	var d resilience.Dispatcher = resilience.NewMeteredDispatcher(client, metrics)
	if cfg.CircuitBreakerEnabled {
		d = resilience.NewDispatcherBreaker(d, cfg, metrics, logger)
	}
	return d
}

func (a *App) Close() {
	a.Redis.Close()
	a.Pool.Close()
}
