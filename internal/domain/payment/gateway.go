package payment

import "fmt"

// DefaultCurrency is used for orders created without an explicit currency.
const DefaultCurrency = "INR"

// OrderStatus is the gateway-side lifecycle of an order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderAttempted OrderStatus = "attempted"
	OrderPaid      OrderStatus = "paid"
)

// GatewayPaymentStatus is the gateway-side lifecycle of a payment.
type GatewayPaymentStatus string

const (
	GatewayPaymentCreated    GatewayPaymentStatus = "created"
	GatewayPaymentAuthorized GatewayPaymentStatus = "authorized"
	GatewayPaymentCaptured   GatewayPaymentStatus = "captured"
	GatewayPaymentRefunded   GatewayPaymentStatus = "refunded"
	GatewayPaymentFailed     GatewayPaymentStatus = "failed"
)

// Settled reports whether money has been secured for the payment.
func (s GatewayPaymentStatus) Settled() bool {
	switch s {
	case GatewayPaymentAuthorized, GatewayPaymentCaptured:
		return true
	case GatewayPaymentCreated, GatewayPaymentRefunded, GatewayPaymentFailed:
		return false
	default:
		return false
	}
}

// Refund statuses reported by the gateway. Pending refunds settle later.
const (
	RefundPending   = "pending"
	RefundProcessed = "processed"
	RefundFailed    = "failed"
)

// Order is the gateway's authoritative order record, returned unchanged in shape.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     OrderStatus       `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

// PaymentRecord is the gateway's view of a single payment.
type PaymentRecord struct {
	ID               string               `json:"id"`
	Entity           string               `json:"entity"`
	Amount           int64                `json:"amount"`
	Currency         string               `json:"currency"`
	Status           GatewayPaymentStatus `json:"status"`
	OrderID          string               `json:"order_id"`
	Method           string               `json:"method"`
	AmountRefunded   int64                `json:"amount_refunded"`
	RefundStatus     *string              `json:"refund_status"`
	Captured         bool                 `json:"captured"`
	Description      string               `json:"description,omitempty"`
	Email            string               `json:"email,omitempty"`
	Contact          string               `json:"contact,omitempty"`
	ErrorCode        *string              `json:"error_code"`
	ErrorDescription *string              `json:"error_description"`
	CreatedAt        int64                `json:"created_at"`
}

// RefundRecord is the gateway's view of a refund.
type RefundRecord struct {
	ID             string            `json:"id"`
	Entity         string            `json:"entity"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	PaymentID      string            `json:"payment_id"`
	Receipt        *string           `json:"receipt"`
	Status         string            `json:"status"`
	SpeedProcessed string            `json:"speed_processed,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
	CreatedAt      int64             `json:"created_at"`
}

// CreateOrderParams is the input to order creation. Amount is in the smallest
// currency unit (paise for INR).
type CreateOrderParams struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// FormatAmount renders an amount in the smallest unit as "1234.50 INR".
func FormatAmount(amount int64, currency string) string {
	whole := amount / 100
	frac := amount % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, currency)
}
