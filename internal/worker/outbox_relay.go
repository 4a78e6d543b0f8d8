package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
)

type OutboxStore interface {
	GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// Publisher appends an outbox entry to its stream.
type Publisher interface {
	Publish(ctx context.Context, entry *outbox.Entry) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxRelay moves committed outbox entries onto Redis streams. Entries are
// claimed with row locks inside one transaction, so concurrent relays never
// publish the same batch.
type OutboxRelay struct {
	store     OutboxStore
	publisher Publisher
	txManager TransactionManager
	batchSize int
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

func NewOutboxRelay(
	store OutboxStore,
	publisher Publisher,
	txManager TransactionManager,
	batchSize int,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		txManager: txManager,
		batchSize: batchSize,
		metrics:   metrics,
		logger:    logger.With().Str("component", "outbox_relay").Logger(),
	}
}

// Run publishes a batch every interval until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error().Err(err).Msg("Outbox relay error")
		}
	}
}

// RunOnce publishes one batch and returns how many entries were published.
// A publish failure counts against the entry's retry budget and the rest of
// the batch still goes out.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		entries, err := r.store.GetPending(txCtx, r.batchSize)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := r.publisher.Publish(ctx, entry); err != nil {
				r.logger.Error().Err(err).
					Str("outbox_id", entry.ID.String()).
					Str("event_type", entry.EventType).
					Int("retry_count", entry.RetryCount).
					Msg("Failed to publish outbox event")
				r.record(entry.EventType, "failed")
				if err := r.store.MarkFailed(txCtx, entry.ID); err != nil {
					return err
				}
				continue
			}
			if err := r.store.MarkPublished(txCtx, entry.ID); err != nil {
				return err
			}
			r.record(entry.EventType, "published")
			published++
		}
		return nil
	})
	return published, err
}

func (r *OutboxRelay) record(eventType, status string) {
	if r.metrics != nil {
		r.metrics.OutboxPublished.WithLabelValues(eventType, status).Inc()
	}
}
