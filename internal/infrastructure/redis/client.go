package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
)

// NewClient connects to Redis, retrying the initial ping with a linear backoff.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	maxRetries := cfg.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	retryDelay := cfg.ConnectRetryDelay
	if retryDelay <= 0 {
		retryDelay = 1 * time.Second
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * retryDelay):
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d retries: %w", maxRetries, err)
}

// Checker adapts a client to the error-returning ping readiness probes use.
type Checker struct {
	Client *redis.Client
}

func (c Checker) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
