package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type OutboxPruner interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type IdempotencyCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// Janitor deletes published outbox rows past retention and expired
// idempotency keys.
type Janitor struct {
	outbox      OutboxPruner
	idempotency IdempotencyCleaner
	retention   time.Duration
	logger      zerolog.Logger
}

func NewJanitor(outbox OutboxPruner, idempotency IdempotencyCleaner, retention time.Duration, logger zerolog.Logger) *Janitor {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Janitor{
		outbox:      outbox,
		idempotency: idempotency,
		retention:   retention,
		logger:      logger.With().Str("component", "janitor").Logger(),
	}
}

func (j *Janitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		j.RunOnce(ctx)
	}
}

// RunOnce runs both cleanups; a failure in one does not skip the other.
func (j *Janitor) RunOnce(ctx context.Context) {
	if n, err := j.outbox.DeletePublishedBefore(ctx, time.Now().Add(-j.retention)); err != nil {
		j.logger.Error().Err(err).Msg("Failed to prune outbox")
	} else if n > 0 {
		j.logger.Info().Int64("deleted", n).Msg("Pruned published outbox entries")
	}

	if n, err := j.idempotency.Cleanup(ctx); err != nil {
		j.logger.Error().Err(err).Msg("Failed to clean idempotency keys")
	} else if n > 0 {
		j.logger.Info().Int64("deleted", n).Msg("Removed expired idempotency keys")
	}
}
