package payment_test

import (
	"context"
	"errors"
	"testing"

	paymentApp "github.com/sonar-shubham/radiant-salon/internal/application/payment"
	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	domainPayment "github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/testutil"
)

func refundingGateway(status string) *testutil.MockGateway {
	return &testutil.MockGateway{
		RefundPaymentFunc: func(_ context.Context, paymentID string, amount *int64) (*domainPayment.RefundRecord, error) {
			refunded := int64(50000)
			if amount != nil {
				refunded = *amount
			}
			return &domainPayment.RefundRecord{
				ID:        "rfnd_1",
				Entity:    "refund",
				Amount:    refunded,
				Currency:  "INR",
				PaymentID: paymentID,
				Status:    status,
			}, nil
		},
	}
}

func TestRefundPayment_Full(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	outboxRepo := &testutil.MockOutboxRepository{}
	original := testutil.NewCompletedTransaction("salon-1", 50000, "order_1", "pay_1")
	repo.Create(ctx, original)

	uc := paymentApp.NewRefundPaymentUseCase(repo, refundingGateway(domainPayment.RefundProcessed), outboxRepo, testutil.NewMockTransactionManager())

	refund, err := uc.Execute(ctx, paymentApp.RefundPaymentRequest{PaymentID: "pay_1", Notes: "client cancelled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refund.Type != domainPayment.TypeRefund {
		t.Errorf("expected refund type, got %s", refund.Type)
	}
	if refund.Amount != 50000 {
		t.Errorf("expected full amount, got %d", refund.Amount)
	}
	if refund.Status != domainPayment.StatusCompleted {
		t.Errorf("expected processed refund to be completed, got %s", refund.Status)
	}
	if refund.SalonID != original.SalonID || refund.ClientID != original.ClientID {
		t.Errorf("refund must belong to the original salon and client")
	}
	if refund.RazorpayRefundID == nil || *refund.RazorpayRefundID != "rfnd_1" {
		t.Errorf("expected refund id rfnd_1")
	}
	if refund.Notes != "client cancelled" {
		t.Errorf("expected notes to be kept")
	}
	if stored, _ := repo.GetByID(ctx, original.ID); stored.Status != domainPayment.StatusCompleted {
		t.Errorf("original payment must stay completed, got %s", stored.Status)
	}
	events := outboxRepo.EventTypes()
	if len(events) != 1 || events[0] != outbox.EventRefundCreated {
		t.Errorf("expected refund event, got %v", events)
	}
	if len(repo.All()) != 2 {
		t.Errorf("expected original and refund transactions, got %d", len(repo.All()))
	}
}

func TestRefundPayment_PartialPending(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	repo.Create(ctx, testutil.NewCompletedTransaction("salon-1", 50000, "order_1", "pay_1"))

	uc := paymentApp.NewRefundPaymentUseCase(repo, refundingGateway(domainPayment.RefundPending),
		&testutil.MockOutboxRepository{}, testutil.NewMockTransactionManager())

	refund, err := uc.Execute(ctx, paymentApp.RefundPaymentRequest{PaymentID: "pay_1", Amount: testutil.Int64Ptr(10000)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refund.Amount != 10000 {
		t.Errorf("expected 10000, got %d", refund.Amount)
	}
	if refund.Status != domainPayment.StatusPending {
		t.Errorf("expected pending refund, got %s", refund.Status)
	}
}

func TestRefundPayment_OverCaptureSurfacesGatewayError(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	repo.Create(ctx, testutil.NewCompletedTransaction("salon-1", 50000, "order_1", "pay_1"))

	const message = "The refund amount provided is greater than amount captured"
	gateway := &testutil.MockGateway{
		RefundPaymentFunc: func(context.Context, string, *int64) (*domainPayment.RefundRecord, error) {
			return nil, domainErrors.NewGatewayError("refund_payment", 400, "BAD_REQUEST_ERROR", message, nil)
		},
	}
	outboxRepo := &testutil.MockOutboxRepository{}
	uc := paymentApp.NewRefundPaymentUseCase(repo, gateway, outboxRepo, testutil.NewMockTransactionManager())

	_, err := uc.Execute(ctx, paymentApp.RefundPaymentRequest{PaymentID: "pay_1", Amount: testutil.Int64Ptr(60000)})

	var gwErr *domainErrors.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gwErr.Message != message {
		t.Errorf("expected gateway message, got %q", gwErr.Message)
	}
	if len(repo.All()) != 1 || len(outboxRepo.Entries) != 0 {
		t.Errorf("nothing must be recorded for a rejected refund")
	}
}

func TestRefundPayment_Validation(t *testing.T) {
	gateway := &testutil.MockGateway{}
	uc := paymentApp.NewRefundPaymentUseCase(testutil.NewMockTransactionRepository(), gateway,
		&testutil.MockOutboxRepository{}, testutil.NewMockTransactionManager())

	tests := []struct {
		name string
		req  paymentApp.RefundPaymentRequest
	}{
		{"missing payment id", paymentApp.RefundPaymentRequest{}},
		{"zero amount", paymentApp.RefundPaymentRequest{PaymentID: "pay_1", Amount: testutil.Int64Ptr(0)}},
		{"negative amount", paymentApp.RefundPaymentRequest{PaymentID: "pay_1", Amount: testutil.Int64Ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			if !errors.Is(err, domainErrors.ErrValidationFailed) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
	if gateway.CallCount() != 0 {
		t.Errorf("expected no gateway calls")
	}
}

func TestRefundPayment_NotCompleted(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewPendingTransaction("salon-1", 50000, "order_1")
	tx.RazorpayPaymentID = testutil.StringPtr("pay_1")
	repo.Create(ctx, tx)
	gateway := &testutil.MockGateway{}

	uc := paymentApp.NewRefundPaymentUseCase(repo, gateway, &testutil.MockOutboxRepository{}, testutil.NewMockTransactionManager())
	_, err := uc.Execute(ctx, paymentApp.RefundPaymentRequest{PaymentID: "pay_1"})
	if !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid state transition, got %v", err)
	}
	if gateway.CallCount() != 0 {
		t.Errorf("expected no gateway calls")
	}
}

func TestRefundPayment_OtherSalon(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	repo.Create(ctx, testutil.NewCompletedTransaction("salon-1", 50000, "order_1", "pay_1"))
	gateway := &testutil.MockGateway{}

	uc := paymentApp.NewRefundPaymentUseCase(repo, gateway, &testutil.MockOutboxRepository{}, testutil.NewMockTransactionManager())
	_, err := uc.Execute(ctx, paymentApp.RefundPaymentRequest{SalonID: "salon-2", PaymentID: "pay_1"})
	if !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if gateway.CallCount() != 0 {
		t.Errorf("expected no gateway calls")
	}
}
