package notification

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
)

// Status is the delivery state of a notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// ParseStatus validates a stored or reported status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusSent, StatusDelivered, StatusRead, StatusFailed:
		return st, nil
	default:
		return "", errors.NewValidationError("status", fmt.Sprintf("unknown notification status %q", s))
	}
}

// Type is the business event a notification reports.
type Type string

const (
	TypeAppointmentReminder     Type = "appointment_reminder"
	TypeAppointmentConfirmation Type = "appointment_confirmation"
	TypeAppointmentCancelled    Type = "appointment_cancelled"
	TypePaymentReceipt          Type = "payment_receipt"
	TypePromotional             Type = "promotional"
)

// ParseType validates a notification type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeAppointmentReminder, TypeAppointmentConfirmation, TypeAppointmentCancelled,
		TypePaymentReceipt, TypePromotional:
		return t, nil
	default:
		return "", errors.NewValidationError("type", fmt.Sprintf("unknown notification type %q", s))
	}
}

// Channel is the medium a notification is delivered through.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
)

// ParseChannel validates a channel.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelWhatsApp, ChannelSMS, ChannelEmail:
		return c, nil
	default:
		return "", errors.NewValidationError("channel", fmt.Sprintf("unknown channel %q", s))
	}
}

// Recipients are international numbers without a leading '+'.
var phonePattern = regexp.MustCompile(`^[1-9][0-9]{7,14}$`)

// ValidatePhone checks a WhatsApp recipient address.
func ValidatePhone(to string) error {
	if !phonePattern.MatchString(to) {
		return errors.NewValidationError("to", "must be country code and number, digits only")
	}
	return nil
}

// Notification is a salon's record of one outbound message attempt.
type Notification struct {
	ID                uuid.UUID
	SalonID           string
	ClientID          string
	AppointmentID     *string
	Type              Type
	Channel           Channel
	Recipient         string
	TemplateName      *string
	MessageContent    string
	Params            Params
	Status            Status
	ExternalMessageID *string
	ErrorMessage      *string
	SentAt            *time.Time
	DeliveredAt       *time.Time
	ReadAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Params carries the business fields a template is rendered from.
type Params struct {
	ClientName    string `json:"client_name,omitempty"`
	ServiceName   string `json:"service_name,omitempty"`
	DateTime      string `json:"date_time,omitempty"`
	SalonName     string `json:"salon_name,omitempty"`
	SalonAddress  string `json:"salon_address,omitempty"`
	Amount        string `json:"amount,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// NewNotification creates a pending notification. Promotional messages carry
// free text in content; every other type is rendered from params.
func NewNotification(salonID, clientID string, typ Type, channel Channel, recipient, content string, params Params) (*Notification, error) {
	if salonID == "" {
		return nil, errors.NewValidationError("salon_id", "is required")
	}
	if clientID == "" {
		return nil, errors.NewValidationError("client_id", "is required")
	}
	if channel == ChannelWhatsApp {
		if err := ValidatePhone(recipient); err != nil {
			return nil, err
		}
	} else if recipient == "" {
		return nil, errors.NewValidationError("recipient", "is required")
	}

	n := &Notification{
		ID:             uuid.New(),
		SalonID:        salonID,
		ClientID:       clientID,
		Type:           typ,
		Channel:        channel,
		Recipient:      recipient,
		MessageContent: content,
		Params:         params,
		Status:         StatusPending,
	}

	if typ == TypePromotional {
		if content == "" {
			return nil, errors.NewValidationError("message_content", "is required for promotional messages")
		}
	} else {
		tmpl, err := TemplateFor(typ, params)
		if err != nil {
			return nil, err
		}
		n.TemplateName = &tmpl.Name
		if n.MessageContent == "" {
			n.MessageContent = tmpl.Preview()
		}
	}

	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	return n, nil
}

// CanTransitionTo checks if the notification can move to the given status.
// Delivery receipts never skip a step and never move backwards.
func (n *Notification) CanTransitionTo(next Status) bool {
	switch n.Status {
	case StatusPending:
		return next == StatusSent || next == StatusFailed
	case StatusSent:
		return next == StatusDelivered
	case StatusDelivered:
		return next == StatusRead
	case StatusRead, StatusFailed:
		return false
	default:
		return false
	}
}

// TransitionTo moves the notification to a new status.
func (n *Notification) TransitionTo(next Status) error {
	if !n.CanTransitionTo(next) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition notification from "+string(n.Status)+" to "+string(next),
			errors.ErrInvalidStateTransition,
		)
	}
	n.Status = next
	n.UpdatedAt = time.Now()
	return nil
}

// MarkSent records a successful dispatch.
func (n *Notification) MarkSent(externalMessageID string) error {
	if err := n.TransitionTo(StatusSent); err != nil {
		return err
	}
	sentAt := n.UpdatedAt
	n.ExternalMessageID = &externalMessageID
	n.SentAt = &sentAt
	return nil
}

// MarkFailed records a rejected dispatch. Failed is terminal.
func (n *Notification) MarkFailed(reason string) error {
	if err := n.TransitionTo(StatusFailed); err != nil {
		return err
	}
	n.ErrorMessage = &reason
	return nil
}

// MarkDelivered applies a provider delivery receipt.
func (n *Notification) MarkDelivered(at time.Time) error {
	if err := n.TransitionTo(StatusDelivered); err != nil {
		return err
	}
	n.DeliveredAt = &at
	return nil
}

// MarkRead applies a provider read receipt.
func (n *Notification) MarkRead(at time.Time) error {
	if err := n.TransitionTo(StatusRead); err != nil {
		return err
	}
	n.ReadAt = &at
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (n *Notification) IsTerminal() bool {
	return n.Status == StatusRead || n.Status == StatusFailed
}
