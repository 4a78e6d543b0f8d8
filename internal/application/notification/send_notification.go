package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

// recordTimeout bounds the outcome write, which runs after the dispatch
// deadline may already have passed.
const recordTimeout = 5 * time.Second

// SendNotificationUseCase performs the single dispatch attempt for a pending
// notification and records the outcome.
type SendNotificationUseCase struct {
	notificationRepo notification.Repository
	dispatcher       Dispatcher
	credentials      CredentialStore
	logger           zerolog.Logger
}

// NewSendNotificationUseCase creates a new SendNotificationUseCase.
func NewSendNotificationUseCase(
	notificationRepo notification.Repository,
	dispatcher Dispatcher,
	credentials CredentialStore,
	logger zerolog.Logger,
) *SendNotificationUseCase {
	return &SendNotificationUseCase{
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		credentials:      credentials,
		logger:           logger,
	}
}

// Execute dispatches the notification if it is still pending. A rejected or
// timed out message is marked failed, which is terminal. An open breaker or a
// cancelled context leaves it pending and the error is returned so the caller
// can redeliver. Once the provider has been called, a failure to store the
// outcome is reported as ErrOutcomeNotRecorded and must not be redelivered.
func (uc *SendNotificationUseCase) Execute(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load notification: %w", err)
	}
	if n.Status != notification.StatusPending {
		uc.logger.Debug().Str("notification_id", id.String()).Str("status", string(n.Status)).Msg("Notification already dispatched, skipping")
		return n, nil
	}

	// A credential lookup failure says nothing about the message; leave it pending.
	var creds notification.Credentials
	if n.Channel == notification.ChannelWhatsApp {
		if creds, err = uc.credentials.WhatsAppCredentials(ctx, n.SalonID); err != nil {
			return nil, fmt.Errorf("resolve credentials: %w", err)
		}
	}

	result, sendErr := uc.dispatch(ctx, n, creds)
	switch {
	case sendErr == nil:
		if err := n.MarkSent(result.MessageID); err != nil {
			return nil, err
		}
	case errors.Is(sendErr, domainErrors.ErrCircuitOpen),
		errors.Is(sendErr, context.Canceled):
		return nil, sendErr
	default:
		if err := n.MarkFailed(failureReason(sendErr)); err != nil {
			return nil, err
		}
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := uc.notificationRepo.Update(rctx, n); err != nil {
		uc.logger.Error().Err(err).
			Str("notification_id", n.ID.String()).
			Str("status", string(n.Status)).
			Msg("Dispatched notification could not be recorded")
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrOutcomeNotRecorded, err)
	}

	event := uc.logger.Info()
	if sendErr != nil {
		event = uc.logger.Warn().Err(sendErr)
	}
	event.Str("notification_id", n.ID.String()).
		Str("type", string(n.Type)).
		Str("status", string(n.Status)).
		Msg("Notification dispatched")

	return n, nil
}

func (uc *SendNotificationUseCase) dispatch(ctx context.Context, n *notification.Notification, creds notification.Credentials) (*notification.SendResult, error) {
	switch n.Channel {
	case notification.ChannelWhatsApp:
	case notification.ChannelSMS, notification.ChannelEmail:
		return nil, domainErrors.NewDomainError("unsupported_channel",
			fmt.Sprintf("no dispatcher for channel %s", n.Channel), domainErrors.ErrDispatchFailed)
	default:
		return nil, domainErrors.NewValidationError("channel", fmt.Sprintf("unknown channel %q", n.Channel))
	}

	if n.Type == notification.TypePromotional {
		return uc.dispatcher.SendTextMessage(ctx, n.Recipient, n.MessageContent, creds)
	}
	tmpl, err := notification.TemplateFor(n.Type, n.Params)
	if err != nil {
		return nil, err
	}
	return uc.dispatcher.SendTemplateMessage(ctx, n.Recipient, tmpl, creds)
}

func failureReason(err error) string {
	var dispatchErr *domainErrors.DispatchError
	if errors.As(err, &dispatchErr) && dispatchErr.Message != "" {
		return dispatchErr.Message
	}
	return err.Error()
}
