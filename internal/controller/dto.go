package controller

import (
	"time"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// --- Request DTOs ---
// Amounts are integers in the smallest currency unit (paise for INR). The
// salon always comes from the bearer token, never from the body.

// CreateOrderRequest holds the input for starting an online payment.
type CreateOrderRequest struct {
	ClientID      string            `json:"client_id" validate:"required,max=64"`
	AppointmentID *string           `json:"appointment_id,omitempty" validate:"omitempty,max=64"`
	Amount        int64             `json:"amount" validate:"required,gt=0"`
	Currency      string            `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Receipt       string            `json:"receipt,omitempty" validate:"omitempty,max=40"`
	Notes         map[string]string `json:"notes,omitempty" validate:"omitempty,max=15"`
}

// VerifyPaymentRequest is the checkout callback as posted by the browser.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string          `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string          `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string          `json:"razorpay_signature" validate:"required,hexadecimal"`
	Receipt           *ReceiptRequest `json:"receipt,omitempty"`
}

// ReceiptRequest asks for a WhatsApp receipt once the payment settles.
type ReceiptRequest struct {
	Recipient   string `json:"recipient" validate:"required,numeric,min=8,max=15"`
	ClientName  string `json:"client_name" validate:"required"`
	ServiceName string `json:"service_name" validate:"required"`
}

// RefundRequest refunds the whole payment when Amount is omitted.
type RefundRequest struct {
	Amount *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=255"`
}

// CreateNotificationRequest queues a notification for dispatch.
type CreateNotificationRequest struct {
	ClientID       string             `json:"client_id" validate:"required,max=64"`
	AppointmentID  *string            `json:"appointment_id,omitempty" validate:"omitempty,max=64"`
	Type           string             `json:"type" validate:"required,oneof=appointment_reminder appointment_confirmation appointment_cancelled payment_receipt promotional"`
	Channel        string             `json:"channel,omitempty" validate:"omitempty,oneof=whatsapp sms email"`
	Recipient      string             `json:"recipient" validate:"required,max=320"`
	MessageContent string             `json:"message_content,omitempty" validate:"omitempty,max=4096"`
	Params         NotificationParams `json:"params"`
}

type NotificationParams struct {
	ClientName    string `json:"client_name,omitempty"`
	ServiceName   string `json:"service_name,omitempty"`
	DateTime      string `json:"date_time,omitempty"`
	SalonName     string `json:"salon_name,omitempty"`
	SalonAddress  string `json:"salon_address,omitempty"`
	Amount        string `json:"amount,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// --- Response DTOs ---

// OrderResponse carries what the checkout widget needs to open the payment.
type OrderResponse struct {
	Order       *payment.Order       `json:"order"`
	KeyID       string               `json:"key_id"`
	Transaction *TransactionResponse `json:"transaction"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                string     `json:"id"`
	SalonID           string     `json:"salon_id"`
	AppointmentID     *string    `json:"appointment_id,omitempty"`
	ClientID          string     `json:"client_id"`
	Amount            int64      `json:"amount"`
	Currency          string     `json:"currency"`
	Type              string     `json:"type"`
	Method            string     `json:"method"`
	RazorpayOrderID   *string    `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string    `json:"razorpay_payment_id,omitempty"`
	RazorpayRefundID  *string    `json:"razorpay_refund_id,omitempty"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	LastError         *string    `json:"last_error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// TransactionListResponse is a page of transactions.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Count        int                    `json:"count"`
	Offset       int                    `json:"offset"`
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID                string     `json:"id"`
	SalonID           string     `json:"salon_id"`
	ClientID          string     `json:"client_id"`
	AppointmentID     *string    `json:"appointment_id,omitempty"`
	Type              string     `json:"type"`
	Channel           string     `json:"channel"`
	Recipient         string     `json:"recipient"`
	TemplateName      *string    `json:"template_name,omitempty"`
	MessageContent    string     `json:"message_content"`
	Status            string     `json:"status"`
	ExternalMessageID *string    `json:"external_message_id,omitempty"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// --- Conversion helpers ---

// FromTransaction converts a domain transaction to API response.
func FromTransaction(t *payment.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID.String(),
		SalonID:           t.SalonID,
		AppointmentID:     t.AppointmentID,
		ClientID:          t.ClientID,
		Amount:            t.Amount,
		Currency:          t.Currency,
		Type:              string(t.Type),
		Method:            string(t.Method),
		RazorpayOrderID:   t.RazorpayOrderID,
		RazorpayPaymentID: t.RazorpayPaymentID,
		RazorpayRefundID:  t.RazorpayRefundID,
		Status:            string(t.Status),
		Notes:             t.Notes,
		LastError:         t.LastError,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		CompletedAt:       t.CompletedAt,
	}
}

// FromNotification converts a domain notification to API response.
func FromNotification(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:                n.ID.String(),
		SalonID:           n.SalonID,
		ClientID:          n.ClientID,
		AppointmentID:     n.AppointmentID,
		Type:              string(n.Type),
		Channel:           string(n.Channel),
		Recipient:         n.Recipient,
		TemplateName:      n.TemplateName,
		MessageContent:    n.MessageContent,
		Status:            string(n.Status),
		ExternalMessageID: n.ExternalMessageID,
		ErrorMessage:      n.ErrorMessage,
		SentAt:            n.SentAt,
		DeliveredAt:       n.DeliveredAt,
		ReadAt:            n.ReadAt,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
	}
}

func (p NotificationParams) toDomain() notification.Params {
	return notification.Params{
		ClientName:    p.ClientName,
		ServiceName:   p.ServiceName,
		DateTime:      p.DateTime,
		SalonName:     p.SalonName,
		SalonAddress:  p.SalonAddress,
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
	}
}
