package payment

import (
	"context"
	"fmt"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/pkg/signature"
)

// VerifyPaymentRequest is the checkout callback as received from the browser.
type VerifyPaymentRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	Receipt   *ReceiptDetails
}

// ReceiptDetails asks for a WhatsApp payment receipt once the payment settles.
type ReceiptDetails struct {
	Recipient   string
	ClientName  string
	ServiceName string
}

// VerifyPaymentUseCase authenticates a checkout callback and settles the
// matching transaction from the gateway's authoritative payment state.
type VerifyPaymentUseCase struct {
	transactionRepo  payment.Repository
	notificationRepo notification.Repository
	gateway          Gateway
	outboxRepo       OutboxWriter
	txManager        TransactionManager
	keySecret        string
}

// NewVerifyPaymentUseCase creates a new VerifyPaymentUseCase.
func NewVerifyPaymentUseCase(
	transactionRepo payment.Repository,
	notificationRepo notification.Repository,
	gateway Gateway,
	outboxRepo OutboxWriter,
	txManager TransactionManager,
	keySecret string,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		transactionRepo:  transactionRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		outboxRepo:       outboxRepo,
		txManager:        txManager,
		keySecret:        keySecret,
	}
}

// Execute rejects the callback unless its signature verifies. A transaction
// that already reached a terminal state is returned unchanged, including when a
// concurrent callback for the same order settles it first.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, req VerifyPaymentRequest) (*payment.Transaction, error) {
	if !signature.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature, uc.keySecret) {
		return nil, domainErrors.ErrSignatureMismatch
	}

	tx, err := uc.transactionRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if tx.IsTerminal() {
		return tx, nil
	}

	record, err := uc.gateway.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if record.OrderID != req.OrderID {
		return nil, domainErrors.NewDomainError("order_mismatch",
			fmt.Sprintf("payment %s belongs to order %s", record.ID, record.OrderID),
			domainErrors.ErrOrderMismatch)
	}
	if !record.Status.Settled() && record.Status != payment.GatewayPaymentFailed {
		// Not settled yet; the gateway will report again.
		return tx, nil
	}

	var settled *payment.Transaction
	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		locked, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx.ID)
		if err != nil {
			return err
		}
		settled = locked
		if locked.IsTerminal() {
			return nil
		}

		event, err := settle(locked, record)
		if err != nil {
			return err
		}
		if err := uc.transactionRepo.Update(txCtx, locked); err != nil {
			return err
		}
		if err := uc.outboxRepo.Insert(txCtx, outbox.NewEntry(outbox.AggregateTransaction, locked.ID, event, map[string]any{
			"transaction_id": locked.ID.String(),
			"salon_id":       locked.SalonID,
			"payment_id":     record.ID,
			"amount":         locked.Amount,
			"currency":       locked.Currency,
			"status":         string(locked.Status),
		})); err != nil {
			return err
		}
		if req.Receipt == nil || locked.Status != payment.StatusCompleted {
			return nil
		}
		return uc.requestReceipt(txCtx, locked, record.ID, *req.Receipt)
	})
	if err != nil {
		return nil, err
	}

	return settled, nil
}

// settle applies a captured or failed gateway payment and returns the event
// to publish.
func settle(tx *payment.Transaction, record *payment.PaymentRecord) (string, error) {
	if record.Status.Settled() {
		tx.Method = payment.MethodFromGateway(record.Method, tx.Method)
		if err := tx.MarkCompleted(record.ID); err != nil {
			return "", err
		}
		return outbox.EventTransactionCompleted, nil
	}

	reason := "payment failed at gateway"
	if record.ErrorDescription != nil {
		reason = *record.ErrorDescription
	}
	tx.RazorpayPaymentID = &record.ID
	if err := tx.MarkFailed(reason); err != nil {
		return "", err
	}
	return outbox.EventTransactionFailed, nil
}

func (uc *VerifyPaymentUseCase) requestReceipt(ctx context.Context, tx *payment.Transaction, paymentID string, r ReceiptDetails) error {
	n, err := notification.NewNotification(tx.SalonID, tx.ClientID, notification.TypePaymentReceipt,
		notification.ChannelWhatsApp, r.Recipient, "", notification.Params{
			ClientName:    r.ClientName,
			ServiceName:   r.ServiceName,
			Amount:        payment.FormatAmount(tx.Amount, tx.Currency),
			TransactionID: paymentID,
		})
	if err != nil {
		return err
	}
	n.AppointmentID = tx.AppointmentID

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	return uc.outboxRepo.Insert(ctx, outbox.NotificationRequested(n.ID, n.SalonID))
}
