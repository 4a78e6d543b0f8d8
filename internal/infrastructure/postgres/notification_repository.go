package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

const notificationColumns = `id, salon_id, client_id, appointment_id, type, channel, recipient,
	template_name, message_content, params, status, external_message_id, error_message,
	sent_at, delivered_at, read_at, created_at, updated_at`

// NotificationRepository implements notification.Repository using PostgreSQL.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	params, err := json.Marshal(n.Params)
	if err != nil {
		return fmt.Errorf("marshal notification params: %w", err)
	}
	_, err = r.db(ctx).Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		n.ID, n.SalonID, n.ClientID, n.AppointmentID, string(n.Type), string(n.Channel), n.Recipient,
		n.TemplateName, n.MessageContent, params, string(n.Status), n.ExternalMessageID, n.ErrorMessage,
		n.SentAt, n.DeliveredAt, n.ReadAt, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return scanNotification(r.db(ctx).QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *NotificationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return scanNotification(r.db(ctx).QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 FOR UPDATE`, id))
}

func (r *NotificationRepository) GetByExternalID(ctx context.Context, externalMessageID string) (*notification.Notification, error) {
	return scanNotification(r.db(ctx).QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE external_message_id = $1`, externalMessageID))
}

func (r *NotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE notifications SET
		  status=$1, external_message_id=$2, error_message=$3,
		  sent_at=$4, delivered_at=$5, read_at=$6, updated_at=$7
		 WHERE id=$8`,
		string(n.Status), n.ExternalMessageID, n.ErrorMessage,
		n.SentAt, n.DeliveredAt, n.ReadAt, n.UpdatedAt, n.ID,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(s scanner) (*notification.Notification, error) {
	n := &notification.Notification{}
	var (
		typ     string
		channel string
		status  string
		params  []byte
	)
	err := s.Scan(
		&n.ID, &n.SalonID, &n.ClientID, &n.AppointmentID, &typ, &channel, &n.Recipient,
		&n.TemplateName, &n.MessageContent, &params, &status, &n.ExternalMessageID, &n.ErrorMessage,
		&n.SentAt, &n.DeliveredAt, &n.ReadAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}

	n.Type = notification.Type(typ)
	n.Channel = notification.Channel(channel)
	n.Status = notification.Status(status)
	if len(params) > 0 {
		if err := json.Unmarshal(params, &n.Params); err != nil {
			return nil, fmt.Errorf("unmarshal notification params: %w", err)
		}
	}
	return n, nil
}
