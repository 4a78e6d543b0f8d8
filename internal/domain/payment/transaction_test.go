package payment_test

import (
	"testing"

	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransaction(t *testing.T) *payment.Transaction {
	t.Helper()
	tx, err := payment.NewTransaction("salon-1", "client-1", payment.TypePayment, payment.MethodUPI, 50000, "INR")
	require.NoError(t, err)
	return tx
}

func TestNewTransaction_Valid(t *testing.T) {
	tx := newPendingTransaction(t)

	assert.Equal(t, payment.StatusPending, tx.Status)
	assert.Equal(t, int64(50000), tx.Amount)
	assert.Equal(t, "INR", tx.Currency)
	assert.Equal(t, payment.TypePayment, tx.Type)
	assert.Nil(t, tx.CompletedAt)
}

func TestNewTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		salonID  string
		clientID string
		amount   int64
		currency string
		field    string
	}{
		{"zero amount", "s", "c", 0, "INR", "amount"},
		{"negative amount", "s", "c", -100, "INR", "amount"},
		{"empty currency", "s", "c", 100, "", "currency"},
		{"short currency", "s", "c", 100, "IN", "currency"},
		{"missing salon", "", "c", 100, "INR", "salon_id"},
		{"missing client", "s", "", 100, "INR", "client_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payment.NewTransaction(tt.salonID, tt.clientID, payment.TypePayment, payment.MethodCard, tt.amount, tt.currency)
			var ve *errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTransaction_PendingToCompleted(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.MarkCompleted("pay_123"))
	assert.Equal(t, payment.StatusCompleted, tx.Status)
	require.NotNil(t, tx.RazorpayPaymentID)
	assert.Equal(t, "pay_123", *tx.RazorpayPaymentID)
	assert.NotNil(t, tx.CompletedAt)
	assert.True(t, tx.IsTerminal())
}

func TestTransaction_PendingToFailed(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.MarkFailed("payment failed at gateway"))
	assert.Equal(t, payment.StatusFailed, tx.Status)
	assert.Equal(t, "payment failed at gateway", *tx.LastError)
}

func TestTransaction_TerminalStatesRejectTransitions(t *testing.T) {
	completed := newPendingTransaction(t)
	require.NoError(t, completed.MarkCompleted("pay_1"))
	assert.ErrorIs(t, completed.MarkFailed("late failure"), errors.ErrInvalidStateTransition)
	assert.ErrorIs(t, completed.MarkCompleted("pay_2"), errors.ErrInvalidStateTransition)
	assert.Equal(t, "pay_1", *completed.RazorpayPaymentID)

	failed := newPendingTransaction(t)
	require.NoError(t, failed.MarkFailed("x"))
	assert.ErrorIs(t, failed.MarkCompleted("pay_1"), errors.ErrInvalidStateTransition)
}

func TestParseTransactionStatus(t *testing.T) {
	for _, s := range []string{"pending", "completed", "failed"} {
		st, err := payment.ParseTransactionStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}
	_, err := payment.ParseTransactionStatus("refunded")
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
}

func TestParseMethodAndType(t *testing.T) {
	m, err := payment.ParseMethod("upi")
	require.NoError(t, err)
	assert.Equal(t, payment.MethodUPI, m)

	_, err = payment.ParseMethod("cheque")
	assert.Error(t, err)

	ty, err := payment.ParseTransactionType("refund")
	require.NoError(t, err)
	assert.Equal(t, payment.TypeRefund, ty)

	_, err = payment.ParseTransactionType("chargeback")
	assert.Error(t, err)
}

func TestMethodFromGateway(t *testing.T) {
	assert.Equal(t, payment.MethodUPI, payment.MethodFromGateway("upi", payment.MethodCash))
	assert.Equal(t, payment.MethodCard, payment.MethodFromGateway("netbanking", payment.MethodCash))
	assert.Equal(t, payment.MethodWallet, payment.MethodFromGateway("wallet", payment.MethodCash))
	assert.Equal(t, payment.MethodCash, payment.MethodFromGateway("", payment.MethodCash))
}

func TestGatewayPaymentStatus_Settled(t *testing.T) {
	assert.True(t, payment.GatewayPaymentCaptured.Settled())
	assert.True(t, payment.GatewayPaymentAuthorized.Settled())
	assert.False(t, payment.GatewayPaymentFailed.Settled())
	assert.False(t, payment.GatewayPaymentCreated.Settled())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.00 INR", payment.FormatAmount(50000, "INR"))
	assert.Equal(t, "100.50 USD", payment.FormatAmount(10050, "USD"))
}
