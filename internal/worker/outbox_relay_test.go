package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	"github.com/sonar-shubham/radiant-salon/internal/testutil"
)

type publisherFunc func(ctx context.Context, entry *outbox.Entry) error

func (f publisherFunc) Publish(ctx context.Context, entry *outbox.Entry) error { return f(ctx, entry) }

func TestOutboxRelay_RunOnce(t *testing.T) {
	ok := outbox.NotificationRequested(uuid.New(), "salon-1")
	bad := outbox.NewEntry(outbox.AggregateTransaction, uuid.New(), outbox.EventTransactionCompleted, nil)

	var published, failed []uuid.UUID
	store := &testutil.MockOutboxRepository{
		GetPendingFunc: func(ctx context.Context, limit int) ([]*outbox.Entry, error) {
			assert.Equal(t, 5, limit)
			return []*outbox.Entry{ok, bad}, nil
		},
		MarkPublishedFunc: func(ctx context.Context, id uuid.UUID) error {
			published = append(published, id)
			return nil
		},
		MarkFailedFunc: func(ctx context.Context, id uuid.UUID) error {
			failed = append(failed, id)
			return nil
		},
	}
	pub := publisherFunc(func(ctx context.Context, e *outbox.Entry) error {
		if e.ID == bad.ID {
			return errors.New("redis down")
		}
		return nil
	})

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	relay := NewOutboxRelay(store, pub, testutil.NewMockTransactionManager(), 5, metrics, zerolog.Nop())

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uuid.UUID{ok.ID}, published)
	assert.Equal(t, []uuid.UUID{bad.ID}, failed)
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.OutboxPublished.WithLabelValues(outbox.EventNotificationRequested, "published")))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.OutboxPublished.WithLabelValues(outbox.EventTransactionCompleted, "failed")))
}

func TestOutboxRelay_RunOnce_StoreError(t *testing.T) {
	store := &testutil.MockOutboxRepository{
		GetPendingFunc: func(ctx context.Context, limit int) ([]*outbox.Entry, error) {
			return nil, errors.New("connection refused")
		},
	}
	pub := publisherFunc(func(ctx context.Context, e *outbox.Entry) error {
		t.Fatal("nothing should be published")
		return nil
	})

	relay := NewOutboxRelay(store, pub, testutil.NewMockTransactionManager(), 0, nil, zerolog.Nop())
	n, err := relay.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestOutboxRelay_RunOnce_MarkPublishedErrorAbortsBatch(t *testing.T) {
	entries := []*outbox.Entry{
		outbox.NotificationRequested(uuid.New(), "salon-1"),
		outbox.NotificationRequested(uuid.New(), "salon-1"),
	}
	store := &testutil.MockOutboxRepository{
		GetPendingFunc: func(ctx context.Context, limit int) ([]*outbox.Entry, error) {
			return entries, nil
		},
		MarkPublishedFunc: func(ctx context.Context, id uuid.UUID) error {
			return errors.New("tx aborted")
		},
	}
	calls := 0
	pub := publisherFunc(func(ctx context.Context, e *outbox.Entry) error {
		calls++
		return nil
	})

	relay := NewOutboxRelay(store, pub, testutil.NewMockTransactionManager(), 10, nil, zerolog.Nop())
	_, err := relay.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
