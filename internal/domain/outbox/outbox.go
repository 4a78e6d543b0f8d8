package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate and event names written by the application layer.
const (
	AggregateNotification = "notification"
	AggregateTransaction  = "transaction"

	EventNotificationRequested = "notification.requested"
	EventTransactionCompleted  = "transaction.completed"
	EventTransactionFailed     = "transaction.failed"
	EventRefundCreated         = "transaction.refund_created"
)

// DefaultMaxRetries bounds how often the publisher retries a single entry.
const DefaultMaxRetries = 5

type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       map[string]any
	Status        Status
	RetryCount    int
	MaxRetries    int
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

func NewEntry(aggregateType string, aggregateID uuid.UUID, eventType string, payload map[string]any) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		Status:        StatusPending,
		RetryCount:    0,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     time.Now(),
	}
}

// NotificationRequested is the entry that hands a pending notification to the
// dispatch worker.
func NotificationRequested(notificationID uuid.UUID, salonID string) *Entry {
	return NewEntry(AggregateNotification, notificationID, EventNotificationRequested, map[string]any{
		"notification_id": notificationID.String(),
		"salon_id":        salonID,
	})
}

// Exhausted reports whether the publisher should stop retrying the entry.
func (e *Entry) Exhausted() bool {
	return e.RetryCount >= e.MaxRetries
}
