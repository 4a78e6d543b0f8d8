package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	notificationApp "github.com/sonar-shubham/radiant-salon/internal/application/notification"
	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/testutil"
)

func TestApplyStatus_DeliveredThenRead(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockNotificationRepository()
	n := testutil.NewSentNotification("salon-1", "wamid.1")
	repo.Create(ctx, n)
	uc := notificationApp.NewApplyStatusUseCase(repo, testutil.NewMockTransactionManager())

	deliveredAt := time.Unix(1700000000, 0)
	got, err := uc.Execute(ctx, notificationApp.StatusUpdate{ExternalMessageID: "wamid.1", Status: notification.StatusDelivered, At: deliveredAt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != notification.StatusDelivered || got.DeliveredAt == nil || !got.DeliveredAt.Equal(deliveredAt) {
		t.Errorf("expected delivered at %v, got %s %v", deliveredAt, got.Status, got.DeliveredAt)
	}

	readAt := deliveredAt.Add(time.Minute)
	got, err = uc.Execute(ctx, notificationApp.StatusUpdate{ExternalMessageID: "wamid.1", Status: notification.StatusRead, At: readAt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != notification.StatusRead || got.ReadAt == nil {
		t.Errorf("expected read, got %s", got.Status)
	}
}

func TestApplyStatus_DuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockNotificationRepository()
	n := testutil.NewSentNotification("salon-1", "wamid.1")
	repo.Create(ctx, n)
	updates := 0
	repo.UpdateFunc = func(context.Context, *notification.Notification) error {
		updates++
		return nil
	}
	uc := notificationApp.NewApplyStatusUseCase(repo, testutil.NewMockTransactionManager())

	got, err := uc.Execute(ctx, notificationApp.StatusUpdate{ExternalMessageID: "wamid.1", Status: notification.StatusSent, At: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != notification.StatusSent || updates != 0 {
		t.Errorf("expected no change, got %s with %d updates", got.Status, updates)
	}
}

func TestApplyStatus_RejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   notification.Status
		status notification.Status
	}{
		{"sent skips to read", notification.StatusSent, notification.StatusRead},
		{"read back to delivered", notification.StatusRead, notification.StatusDelivered},
		{"sent reported failed", notification.StatusSent, notification.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := testutil.NewMockNotificationRepository()
			n := testutil.NewSentNotification("salon-1", "wamid.1")
			n.Status = tt.from
			repo.Create(ctx, n)
			uc := notificationApp.NewApplyStatusUseCase(repo, testutil.NewMockTransactionManager())

			_, err := uc.Execute(ctx, notificationApp.StatusUpdate{ExternalMessageID: "wamid.1", Status: tt.status, At: time.Now()})
			if !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
				t.Fatalf("expected invalid transition, got %v", err)
			}
			if stored, _ := repo.GetByID(ctx, n.ID); stored.Status != tt.from {
				t.Errorf("status must not change, got %s", stored.Status)
			}
		})
	}
}

func TestApplyStatus_UnknownMessage(t *testing.T) {
	uc := notificationApp.NewApplyStatusUseCase(testutil.NewMockNotificationRepository(), testutil.NewMockTransactionManager())

	_, err := uc.Execute(context.Background(), notificationApp.StatusUpdate{ExternalMessageID: "wamid.none", Status: notification.StatusDelivered})
	if !errors.Is(err, domainErrors.ErrNotificationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
