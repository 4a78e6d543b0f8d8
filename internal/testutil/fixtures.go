package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/pkg/signature"
)

// Shared gateway credentials for tests.
const (
	TestKeySecret = "rzp_test_secret"
	TestAppSecret = "whatsapp-app-secret"
)

// NewPendingTransaction returns a pending payment transaction linked to orderID.
func NewPendingTransaction(salonID string, amount int64, orderID string) *payment.Transaction {
	now := time.Now()
	return &payment.Transaction{
		ID:              uuid.New(),
		SalonID:         salonID,
		ClientID:        "client-" + salonID,
		Amount:          amount,
		Currency:        "INR",
		Type:            payment.TypePayment,
		Method:          payment.MethodUPI,
		RazorpayOrderID: &orderID,
		Status:          payment.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewCompletedTransaction returns a completed payment transaction settled by paymentID.
func NewCompletedTransaction(salonID string, amount int64, orderID, paymentID string) *payment.Transaction {
	tx := NewPendingTransaction(salonID, amount, orderID)
	completedAt := time.Now()
	tx.Status = payment.StatusCompleted
	tx.RazorpayPaymentID = &paymentID
	tx.CompletedAt = &completedAt
	return tx
}

// NewCapturedPayment returns the gateway record of a captured payment.
func NewCapturedPayment(paymentID, orderID string, amount int64) *payment.PaymentRecord {
	return &payment.PaymentRecord{
		ID:       paymentID,
		Entity:   "payment",
		Amount:   amount,
		Currency: "INR",
		Status:   payment.GatewayPaymentCaptured,
		OrderID:  orderID,
		Method:   "card",
		Captured: true,
	}
}

// NewPendingNotification returns a pending WhatsApp appointment reminder.
func NewPendingNotification(salonID string) *notification.Notification {
	tmpl := notification.TemplateAppointmentReminder
	now := time.Now()
	return &notification.Notification{
		ID:           uuid.New(),
		SalonID:      salonID,
		ClientID:     "client-" + salonID,
		Type:         notification.TypeAppointmentReminder,
		Channel:      notification.ChannelWhatsApp,
		Recipient:    "919876543210",
		TemplateName: &tmpl,
		Params: notification.Params{
			ClientName:  "Asha",
			ServiceName: "Haircut",
			DateTime:    "2024-05-01 10:00",
			SalonName:   "Glow Salon",
		},
		Status:    notification.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSentNotification returns a notification already accepted by the provider.
func NewSentNotification(salonID, externalID string) *notification.Notification {
	n := NewPendingNotification(salonID)
	sentAt := time.Now()
	n.Status = notification.StatusSent
	n.ExternalMessageID = &externalID
	n.SentAt = &sentAt
	return n
}

// PaymentSignature signs a checkout callback with TestKeySecret.
func PaymentSignature(orderID, paymentID string) string {
	return signature.SignPayment(orderID, paymentID, TestKeySecret)
}

func StringPtr(s string) *string {
	return &s
}

func Int64Ptr(v int64) *int64 {
	return &v
}
