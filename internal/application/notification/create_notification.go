package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
)

// CreateNotificationRequest holds the input for queueing a notification.
type CreateNotificationRequest struct {
	SalonID        string
	ClientID       string
	AppointmentID  *string
	Type           notification.Type
	Channel        notification.Channel
	Recipient      string
	MessageContent string
	Params         notification.Params
}

// CreateNotificationUseCase records a pending notification and hands it to the
// dispatch worker through the outbox, atomically.
type CreateNotificationUseCase struct {
	notificationRepo notification.Repository
	outboxRepo       OutboxWriter
	txManager        TransactionManager
}

// NewCreateNotificationUseCase creates a new CreateNotificationUseCase.
func NewCreateNotificationUseCase(
	notificationRepo notification.Repository,
	outboxRepo OutboxWriter,
	txManager TransactionManager,
) *CreateNotificationUseCase {
	return &CreateNotificationUseCase{
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		txManager:        txManager,
	}
}

func (uc *CreateNotificationUseCase) Execute(ctx context.Context, req CreateNotificationRequest) (*notification.Notification, error) {
	n, err := notification.NewNotification(req.SalonID, req.ClientID, req.Type, req.Channel, req.Recipient, req.MessageContent, req.Params)
	if err != nil {
		return nil, err
	}
	n.AppointmentID = req.AppointmentID

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.notificationRepo.Create(txCtx, n); err != nil {
			return err
		}
		return uc.outboxRepo.Insert(txCtx, outbox.NotificationRequested(n.ID, n.SalonID))
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

// GetNotificationUseCase loads a notification record.
type GetNotificationUseCase struct {
	notificationRepo notification.Repository
}

func NewGetNotificationUseCase(notificationRepo notification.Repository) *GetNotificationUseCase {
	return &GetNotificationUseCase{notificationRepo: notificationRepo}
}

func (uc *GetNotificationUseCase) Execute(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return uc.notificationRepo.GetByID(ctx, id)
}
