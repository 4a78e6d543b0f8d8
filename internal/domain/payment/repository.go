package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for transaction persistence
type Repository interface {
	// Create inserts a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// GetByIDForUpdate retrieves a transaction with a row lock (must be in a transaction)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// GetByOrderID retrieves the payment transaction created for a gateway order
	GetByOrderID(ctx context.Context, orderID string) (*Transaction, error)

	// GetByPaymentID retrieves the payment transaction settled by a gateway payment
	GetByPaymentID(ctx context.Context, paymentID string) (*Transaction, error)

	// Update persists status and gateway references
	Update(ctx context.Context, tx *Transaction) error

	// List lists transactions with filters
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

// ListFilter defines filters for listing transactions
type ListFilter struct {
	SalonID       string
	ClientID      string
	AppointmentID string
	Status        *TransactionStatus
	Type          *TransactionType
	Limit         int
	Offset        int
}
