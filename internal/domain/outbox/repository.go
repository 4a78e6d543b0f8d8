package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the durable queue between a committed payment or notification
// change and the stream the worker consumes.
//
// Insert joins the caller's database transaction, so an event exists exactly
// when the state change it announces does. GetPending locks the rows it
// returns for the rest of the surrounding transaction; the relay publishes and
// marks them before committing.
type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	GetPending(ctx context.Context, limit int) ([]*Entry, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error

	// MarkFailed counts a failed publish; the entry is parked as failed once
	// it runs out of retries.
	MarkFailed(ctx context.Context, id uuid.UUID) error

	// DeletePublishedBefore prunes delivered events past retention and
	// reports how many were removed.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
