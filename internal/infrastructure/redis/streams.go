package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
)

const (
	// NotificationStream carries notifications awaiting dispatch.
	NotificationStream = "notifications:dispatch"
	// TransactionStream carries transaction events for downstream consumers.
	TransactionStream = "transactions:events"
	DLQStream         = "notifications:dlq"
)

// StreamFor routes an outbox event to its stream.
func StreamFor(eventType string) string {
	if eventType == outbox.EventNotificationRequested {
		return NotificationStream
	}
	return TransactionStream
}

// Message is an outbox entry as carried on a stream.
type Message struct {
	StreamID    string
	EntryID     uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     map[string]any
}

type StreamProducer struct {
	client *redis.Client
}

func NewStreamProducer(client *redis.Client) *StreamProducer {
	return &StreamProducer{client: client}
}

// Publish appends an outbox entry to the stream its event type routes to.
func (p *StreamProducer) Publish(ctx context.Context, entry *outbox.Entry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamFor(entry.EventType),
		Values: map[string]any{
			"entry_id":     entry.ID.String(),
			"aggregate_id": entry.AggregateID.String(),
			"event_type":   entry.EventType,
			"payload":      string(payload),
			"timestamp":    time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", entry.EventType, err)
	}
	return nil
}

// PublishToDLQ parks a message that could not be processed.
func (p *StreamProducer) PublishToDLQ(ctx context.Context, msg Message, reason string) error {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ payload: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: DLQStream,
		Values: map[string]any{
			"stream_id":    msg.StreamID,
			"entry_id":     msg.EntryID.String(),
			"aggregate_id": msg.AggregateID.String(),
			"event_type":   msg.EventType,
			"reason":       reason,
			"payload":      string(payload),
			"timestamp":    time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}
	return nil
}

// DecodeMessage parses a stream message written by Publish.
func DecodeMessage(m redis.XMessage) (Message, error) {
	msg := Message{StreamID: m.ID}

	str := func(field string) string {
		v, _ := m.Values[field].(string)
		return v
	}

	var err error
	if msg.EntryID, err = uuid.Parse(str("entry_id")); err != nil {
		return msg, fmt.Errorf("message %s: bad entry_id: %w", m.ID, err)
	}
	if msg.AggregateID, err = uuid.Parse(str("aggregate_id")); err != nil {
		return msg, fmt.Errorf("message %s: bad aggregate_id: %w", m.ID, err)
	}
	msg.EventType = str("event_type")
	if raw := str("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &msg.Payload); err != nil {
			return msg, fmt.Errorf("message %s: bad payload: %w", m.ID, err)
		}
	}
	return msg, nil
}

type StreamConsumer struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	batchSize     int64
	blockDuration time.Duration
}

func NewStreamConsumer(
	client *redis.Client,
	stream string,
	group string,
	consumer string,
	batchSize int64,
	blockDuration time.Duration,
) *StreamConsumer {
	return &StreamConsumer{
		client:        client,
		stream:        stream,
		group:         group,
		consumer:      consumer,
		batchSize:     batchSize,
		blockDuration: blockDuration,
	}
}

func (c *StreamConsumer) Stream() string {
	return c.stream
}

// CreateGroup creates the consumer group and the stream if missing.
func (c *StreamConsumer) CreateGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Read blocks for new messages. A timeout with nothing to read returns nil.
func (c *StreamConsumer) Read(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    c.batchSize,
		Block:    c.blockDuration,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []redis.XMessage
	for _, s := range streams {
		messages = append(messages, s.Messages...)
	}
	return messages, nil
}

func (c *StreamConsumer) Ack(ctx context.Context, messageID string) error {
	if err := c.client.XAck(ctx, c.stream, c.group, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	return nil
}

// ClaimStale takes over messages another consumer read but never acked.
func (c *StreamConsumer) ClaimStale(ctx context.Context, minIdle time.Duration) ([]redis.XMessage, error) {
	messages, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    c.batchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}
	return messages, nil
}
