package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// GetPaymentUseCase is a read-through fetch of the gateway's payment state.
type GetPaymentUseCase struct {
	gateway Gateway
}

func NewGetPaymentUseCase(gateway Gateway) *GetPaymentUseCase {
	return &GetPaymentUseCase{gateway: gateway}
}

func (uc *GetPaymentUseCase) Execute(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	return uc.gateway.GetPayment(ctx, paymentID)
}

// GetTransactionUseCase loads a locally recorded transaction.
type GetTransactionUseCase struct {
	transactionRepo payment.Repository
}

func NewGetTransactionUseCase(transactionRepo payment.Repository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactionRepo: transactionRepo}
}

func (uc *GetTransactionUseCase) Execute(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListTransactionsUseCase lists a salon's transactions.
type ListTransactionsUseCase struct {
	transactionRepo payment.Repository
}

func NewListTransactionsUseCase(transactionRepo payment.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepo: transactionRepo}
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, filter payment.ListFilter) ([]*payment.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.transactionRepo.List(ctx, filter)
}
