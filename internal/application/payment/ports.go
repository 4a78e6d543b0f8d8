package payment

import (
	"context"

	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// Gateway is the payment gateway client. Implementations make one remote call
// per method and never retry; retries and circuit breaking are layered on by
// decorators.
type Gateway interface {
	CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error)
	GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error)
	RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error)
}

// TransactionManager defines the interface for transaction management.
// This is an application-layer port, not a domain concern.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxWriter defines the interface for writing to the transactional outbox.
type OutboxWriter interface {
	Insert(ctx context.Context, entry *outbox.Entry) error
}
