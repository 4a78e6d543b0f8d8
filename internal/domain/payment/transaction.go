package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypePayment TransactionType = "payment"
	TypeRefund  TransactionType = "refund"
)

// ParseTransactionType validates a stored or requested transaction type.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypePayment, TypeRefund:
		return t, nil
	default:
		return "", errors.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", s))
	}
}

// Method is how the client paid.
type Method string

const (
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
	MethodUPI    Method = "upi"
	MethodWallet Method = "wallet"
)

// ParseMethod validates a payment method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodCash, MethodCard, MethodUPI, MethodWallet:
		return m, nil
	default:
		return "", errors.NewValidationError("method", fmt.Sprintf("unknown payment method %q", s))
	}
}

// MethodFromGateway maps the gateway's method names onto ours. Netbanking and
// EMI are reported as card; anything unknown keeps the fallback.
func MethodFromGateway(gatewayMethod string, fallback Method) Method {
	switch gatewayMethod {
	case "upi":
		return MethodUPI
	case "card", "netbanking", "emi":
		return MethodCard
	case "wallet":
		return MethodWallet
	default:
		return fallback
	}
}

// TransactionStatus is the locally recorded outcome of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// ParseTransactionStatus validates a stored status.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch st := TransactionStatus(s); st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, nil
	default:
		return "", errors.NewValidationError("status", fmt.Sprintf("unknown transaction status %q", s))
	}
}

// Transaction is a salon's record of a payment or refund.
type Transaction struct {
	ID                uuid.UUID
	SalonID           string
	AppointmentID     *string
	ClientID          string
	Amount            int64
	Currency          string
	Type              TransactionType
	Method            Method
	RazorpayOrderID   *string
	RazorpayPaymentID *string
	RazorpayRefundID  *string
	Status            TransactionStatus
	Notes             string
	LastError         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// NewTransaction creates a pending transaction.
func NewTransaction(salonID, clientID string, txType TransactionType, method Method, amount int64, currency string) (*Transaction, error) {
	if err := ValidateAmount(amount, currency); err != nil {
		return nil, err
	}
	if salonID == "" {
		return nil, errors.NewValidationError("salon_id", "is required")
	}
	if clientID == "" {
		return nil, errors.NewValidationError("client_id", "is required")
	}

	now := time.Now()
	return &Transaction{
		ID:        uuid.New(),
		SalonID:   salonID,
		ClientID:  clientID,
		Amount:    amount,
		Currency:  currency,
		Type:      txType,
		Method:    method,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanTransitionTo checks if the transaction can move to the given status.
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	switch t.Status {
	case StatusPending:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return false
	default:
		return false
	}
}

// TransitionTo moves the transaction to a new status.
func (t *Transaction) TransitionTo(next TransactionStatus) error {
	if !t.CanTransitionTo(next) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition transaction from "+string(t.Status)+" to "+string(next),
			errors.ErrInvalidStateTransition,
		)
	}

	now := time.Now()
	t.Status = next
	t.UpdatedAt = now
	t.CompletedAt = &now
	return nil
}

// MarkCompleted records the gateway payment that settled this transaction.
func (t *Transaction) MarkCompleted(gatewayPaymentID string) error {
	if err := t.TransitionTo(StatusCompleted); err != nil {
		return err
	}
	if gatewayPaymentID != "" {
		t.RazorpayPaymentID = &gatewayPaymentID
	}
	return nil
}

// MarkFailed records why the transaction failed.
func (t *Transaction) MarkFailed(reason string) error {
	if err := t.TransitionTo(StatusFailed); err != nil {
		return err
	}
	t.LastError = &reason
	return nil
}

// IsTerminal reports whether the transaction can no longer change.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// ValidateAmount checks an amount in the smallest currency unit.
func ValidateAmount(amount int64, currency string) error {
	if amount <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	if currency == "" {
		return errors.NewValidationError("currency", "cannot be empty")
	}
	if len(currency) != 3 {
		return errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	return nil
}
