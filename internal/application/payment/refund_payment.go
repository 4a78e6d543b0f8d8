package payment

import (
	"context"
	"fmt"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// RefundPaymentRequest refunds Amount, or the whole payment when Amount is nil.
// A non-empty SalonID restricts the refund to that salon's payments.
type RefundPaymentRequest struct {
	SalonID   string
	PaymentID string
	Amount    *int64
	Notes     string
}

// RefundPaymentUseCase initiates a refund at the gateway and records it as a
// refund transaction against the original payment's salon and client.
type RefundPaymentUseCase struct {
	transactionRepo payment.Repository
	gateway         Gateway
	outboxRepo      OutboxWriter
	txManager       TransactionManager
}

// NewRefundPaymentUseCase creates a new RefundPaymentUseCase.
func NewRefundPaymentUseCase(
	transactionRepo payment.Repository,
	gateway Gateway,
	outboxRepo OutboxWriter,
	txManager TransactionManager,
) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{
		transactionRepo: transactionRepo,
		gateway:         gateway,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
	}
}

// Execute refunds a payment. The amount's upper bound is the gateway's to
// enforce and repeated requests are not deduplicated here.
func (uc *RefundPaymentUseCase) Execute(ctx context.Context, req RefundPaymentRequest) (*payment.Transaction, error) {
	if req.PaymentID == "" {
		return nil, domainErrors.NewValidationError("payment_id", "is required")
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, domainErrors.NewValidationError("amount", "must be greater than 0")
	}

	original, err := uc.transactionRepo.GetByPaymentID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if req.SalonID != "" && original.SalonID != req.SalonID {
		return nil, domainErrors.ErrTransactionNotFound
	}
	if original.Status != payment.StatusCompleted {
		return nil, domainErrors.NewDomainError(
			"invalid_refund",
			fmt.Sprintf("cannot refund transaction in status %s", original.Status),
			domainErrors.ErrInvalidStateTransition,
		)
	}

	refund, err := uc.gateway.RefundPayment(ctx, req.PaymentID, req.Amount)
	if err != nil {
		return nil, err
	}

	currency := refund.Currency
	if currency == "" {
		currency = original.Currency
	}
	tx, err := payment.NewTransaction(original.SalonID, original.ClientID, payment.TypeRefund, original.Method, refund.Amount, currency)
	if err != nil {
		return nil, err
	}
	tx.AppointmentID = original.AppointmentID
	tx.RazorpayOrderID = original.RazorpayOrderID
	tx.RazorpayPaymentID = &refund.PaymentID
	tx.RazorpayRefundID = &refund.ID
	tx.Notes = req.Notes
	switch refund.Status {
	case payment.RefundProcessed:
		err = tx.MarkCompleted("")
	case payment.RefundFailed:
		err = tx.MarkFailed("refund failed at gateway")
	}
	if err != nil {
		return nil, err
	}

	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.transactionRepo.Create(txCtx, tx); err != nil {
			return err
		}
		return uc.outboxRepo.Insert(txCtx, outbox.NewEntry(outbox.AggregateTransaction, tx.ID, outbox.EventRefundCreated, map[string]any{
			"transaction_id":          tx.ID.String(),
			"original_transaction_id": original.ID.String(),
			"refund_id":               refund.ID,
			"payment_id":              refund.PaymentID,
			"amount":                  refund.Amount,
			"status":                  refund.Status,
		}))
	})
	if err != nil {
		return nil, fmt.Errorf("record refund %s: %w", refund.ID, err)
	}

	return tx, nil
}
