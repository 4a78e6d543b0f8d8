package redis

import (
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
)

func TestStreamFor(t *testing.T) {
	assert.Equal(t, NotificationStream, StreamFor(outbox.EventNotificationRequested))
	assert.Equal(t, TransactionStream, StreamFor(outbox.EventTransactionCompleted))
	assert.Equal(t, TransactionStream, StreamFor(outbox.EventRefundCreated))
}

func TestDecodeMessage(t *testing.T) {
	entryID := uuid.New()
	notificationID := uuid.New()

	msg, err := DecodeMessage(redis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]any{
			"entry_id":     entryID.String(),
			"aggregate_id": notificationID.String(),
			"event_type":   outbox.EventNotificationRequested,
			"payload":      `{"notification_id":"` + notificationID.String() + `","salon_id":"salon-1"}`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-0", msg.StreamID)
	assert.Equal(t, entryID, msg.EntryID)
	assert.Equal(t, notificationID, msg.AggregateID)
	assert.Equal(t, "salon-1", msg.Payload["salon_id"])
}

func TestDecodeMessage_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing entry id", map[string]any{"aggregate_id": uuid.NewString()}},
		{"bad aggregate id", map[string]any{"entry_id": uuid.NewString(), "aggregate_id": "nope"}},
		{"bad payload", map[string]any{"entry_id": uuid.NewString(), "aggregate_id": uuid.NewString(), "payload": "{"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage(redis.XMessage{ID: "1-0", Values: tt.values})
			assert.Error(t, err)
		})
	}
}
