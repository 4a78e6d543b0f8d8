package payment_test

import (
	"context"
	"testing"

	paymentApp "github.com/sonar-shubham/radiant-salon/internal/application/payment"
	domainPayment "github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/testutil"
)

func TestListTransactions_ClampsLimit(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	var seen domainPayment.ListFilter
	repo.ListFunc = func(_ context.Context, filter domainPayment.ListFilter) ([]*domainPayment.Transaction, error) {
		seen = filter
		return nil, nil
	}
	uc := paymentApp.NewListTransactionsUseCase(repo)

	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{500, -3, 20, 0},
		{50, 10, 50, 10},
	}
	for _, tt := range tests {
		if _, err := uc.Execute(context.Background(), domainPayment.ListFilter{SalonID: "salon-1", Limit: tt.limit, Offset: tt.offset}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen.Limit != tt.wantLimit || seen.Offset != tt.wantOffset {
			t.Errorf("limit %d offset %d: got %d/%d", tt.limit, tt.offset, seen.Limit, seen.Offset)
		}
	}
}

func TestGetPayment_ReadThrough(t *testing.T) {
	gateway := &testutil.MockGateway{
		GetPaymentFunc: func(_ context.Context, id string) (*domainPayment.PaymentRecord, error) {
			return testutil.NewCapturedPayment(id, "order_1", 50000), nil
		},
	}
	uc := paymentApp.NewGetPaymentUseCase(gateway)

	record, err := uc.Execute(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "pay_1" || record.Status != domainPayment.GatewayPaymentCaptured {
		t.Errorf("unexpected record: %+v", record)
	}
}
