package payment

import (
	"context"
	"fmt"

	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// CreateOrderRequest holds the input for starting an online payment.
type CreateOrderRequest struct {
	SalonID       string
	ClientID      string
	AppointmentID *string
	Amount        int64 // smallest currency unit
	Currency      string
	Receipt       string
	Notes         map[string]string
}

// CreateOrderResponse pairs the gateway order with the local pending transaction.
type CreateOrderResponse struct {
	Order       *payment.Order
	Transaction *payment.Transaction
}

// CreateOrderUseCase creates a gateway order and records a pending transaction for it.
type CreateOrderUseCase struct {
	transactionRepo payment.Repository
	gateway         Gateway
}

// NewCreateOrderUseCase creates a new CreateOrderUseCase.
func NewCreateOrderUseCase(transactionRepo payment.Repository, gateway Gateway) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		transactionRepo: transactionRepo,
		gateway:         gateway,
	}
}

// Execute validates the request before any remote call, creates the order and
// persists the pending transaction.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}
	tx, err := payment.NewTransaction(req.SalonID, req.ClientID, payment.TypePayment, payment.MethodUPI, req.Amount, currency)
	if err != nil {
		return nil, err
	}
	tx.AppointmentID = req.AppointmentID

	notes := make(map[string]string, len(req.Notes)+2)
	for k, v := range req.Notes {
		notes[k] = v
	}
	notes["salon_id"] = req.SalonID
	notes["transaction_id"] = tx.ID.String()

	order, err := uc.gateway.CreateOrder(ctx, payment.CreateOrderParams{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	// The gateway's record is authoritative for the currency actually used.
	tx.Currency = order.Currency
	tx.RazorpayOrderID = &order.ID
	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("record transaction for order %s: %w", order.ID, err)
	}

	return &CreateOrderResponse{Order: order, Transaction: tx}, nil
}
