package notification

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

// StatusUpdate is a verified delivery receipt from the provider.
type StatusUpdate struct {
	ExternalMessageID string
	Status            notification.Status
	At                time.Time
}

// ApplyStatusUseCase advances a notification from a provider receipt. Receipts
// never create transitions the state machine forbids.
type ApplyStatusUseCase struct {
	notificationRepo notification.Repository
	txManager        TransactionManager
}

// NewApplyStatusUseCase creates a new ApplyStatusUseCase.
func NewApplyStatusUseCase(notificationRepo notification.Repository, txManager TransactionManager) *ApplyStatusUseCase {
	return &ApplyStatusUseCase{
		notificationRepo: notificationRepo,
		txManager:        txManager,
	}
}

// Execute applies one receipt. A receipt repeating the current status is a
// no-op; skipped or backwards transitions return ErrInvalidStateTransition.
func (uc *ApplyStatusUseCase) Execute(ctx context.Context, update StatusUpdate) (*notification.Notification, error) {
	var applied *notification.Notification

	err := uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		found, err := uc.notificationRepo.GetByExternalID(txCtx, update.ExternalMessageID)
		if err != nil {
			return err
		}
		n, err := uc.notificationRepo.GetByIDForUpdate(txCtx, found.ID)
		if err != nil {
			return err
		}
		if n.Status == update.Status {
			applied = n
			return nil
		}

		switch update.Status {
		case notification.StatusDelivered:
			err = n.MarkDelivered(update.At)
		case notification.StatusRead:
			err = n.MarkRead(update.At)
		case notification.StatusPending, notification.StatusSent, notification.StatusFailed:
			err = n.TransitionTo(update.Status)
		default:
			err = domainErrors.NewValidationError("status", fmt.Sprintf("unknown status %q", update.Status))
		}
		if err != nil {
			return err
		}

		applied = n
		return uc.notificationRepo.Update(txCtx, n)
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}
