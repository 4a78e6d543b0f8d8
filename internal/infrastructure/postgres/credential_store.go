package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

// CredentialStore reads salons' own WhatsApp Business senders.
type CredentialStore struct {
	pool *pgxpool.Pool
}

func NewCredentialStore(pool *pgxpool.Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

// WhatsAppCredentials returns the salon's active sender. Salons without one
// get a zero value and are served from the platform number.
func (s *CredentialStore) WhatsAppCredentials(ctx context.Context, salonID string) (notification.Credentials, error) {
	var creds notification.Credentials
	err := ConnFromCtx(ctx, s.pool).QueryRow(ctx,
		`SELECT phone_number_id, access_token FROM salon_whatsapp_accounts
		 WHERE salon_id = $1 AND active`, salonID,
	).Scan(&creds.PhoneNumberID, &creds.AccessToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.Credentials{}, nil
		}
		return notification.Credentials{}, fmt.Errorf("load whatsapp credentials for salon %s: %w", salonID, err)
	}
	return creds, nil
}
