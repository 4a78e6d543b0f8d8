package notification

import (
	"context"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
)

// Dispatcher sends one message per call and reports the provider's outcome.
// Rejections are *errors.DispatchError; nothing is retried.
type Dispatcher interface {
	SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error)
	SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error)
}

// CredentialStore resolves a salon's own WhatsApp sender. A zero value means
// the salon uses the platform number.
type CredentialStore interface {
	WhatsAppCredentials(ctx context.Context, salonID string) (notification.Credentials, error)
}

// TransactionManager defines the interface for transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxWriter defines the interface for writing to the transactional outbox.
type OutboxWriter interface {
	Insert(ctx context.Context, entry *outbox.Entry) error
}
