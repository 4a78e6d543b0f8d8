package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	// Create inserts a new notification
	Create(ctx context.Context, n *Notification) error

	// GetByID retrieves a notification by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// GetByIDForUpdate retrieves a notification with a row lock (must be in a transaction)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Notification, error)

	// GetByExternalID retrieves a notification by the provider's message id
	GetByExternalID(ctx context.Context, externalMessageID string) (*Notification, error)

	// Update persists status, provider reference and timestamps
	Update(ctx context.Context, n *Notification) error
}
