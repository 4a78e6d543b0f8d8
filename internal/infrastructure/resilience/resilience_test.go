package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	mocks "github.com/sonar-shubham/radiant-salon/internal/testutil"
)

func testResilience() config.ResilienceConfig {
	return config.ResilienceConfig{
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: 3,
		CircuitBreakerTimeout:   time.Minute,
		ReadRetryAttempts:       3,
		ReadRetryDelay:          time.Millisecond,
	}
}

func TestGatewayBreaker_OpensOnServerErrors(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	gateway := &mocks.MockGateway{
		GetPaymentFunc: func(context.Context, string) (*payment.PaymentRecord, error) {
			return nil, domainErrors.NewGatewayError("get_payment", 502, "", "bad gateway", nil)
		},
	}
	b := NewGatewayBreaker(gateway, testResilience(), metrics, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := b.GetPayment(context.Background(), "pay_1")
		require.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
	}

	_, err := b.GetPayment(context.Background(), "pay_1")
	assert.ErrorIs(t, err, domainErrors.ErrCircuitOpen)
	assert.Equal(t, 3, gateway.CallCount())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(BreakerRazorpay+"_payments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(BreakerRazorpay+"_payments", "rejected")))

	// Other operations keep their own breaker.
	gateway.CreateOrderFunc = nil
	_, err = b.CreateOrder(context.Background(), payment.CreateOrderParams{Amount: 100})
	assert.NoError(t, err)
}

func TestGatewayBreaker_OpenIsGatewayError(t *testing.T) {
	gateway := &mocks.MockGateway{
		CreateOrderFunc: func(context.Context, payment.CreateOrderParams) (*payment.Order, error) {
			return nil, domainErrors.NewGatewayError("create_order", 503, "", "unavailable", nil)
		},
	}
	b := NewGatewayBreaker(gateway, testResilience(), nil, zerolog.Nop())
	for i := 0; i < 3; i++ {
		_, _ = b.CreateOrder(context.Background(), payment.CreateOrderParams{Amount: 100})
	}

	_, err := b.CreateOrder(context.Background(), payment.CreateOrderParams{Amount: 100})
	require.ErrorIs(t, err, domainErrors.ErrCircuitOpen)
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
	var gwErr *domainErrors.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "create_order", gwErr.Op)
	assert.Equal(t, 0, gwErr.StatusCode)
	assert.False(t, Transient(err))
}

func TestGatewayBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	gateway := &mocks.MockGateway{
		RefundPaymentFunc: func(context.Context, string, *int64) (*payment.RefundRecord, error) {
			return nil, domainErrors.NewGatewayError("refund_payment", 400, "BAD_REQUEST_ERROR", "The refund amount provided is greater than amount captured", nil)
		},
	}
	b := NewGatewayBreaker(gateway, testResilience(), nil, zerolog.Nop())

	for i := 0; i < 10; i++ {
		_, err := b.RefundPayment(context.Background(), "pay_1", nil)
		var gwErr *domainErrors.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, 400, gwErr.StatusCode)
	}
	assert.Equal(t, 10, gateway.CallCount())
}

func TestDispatcherBreaker_OpensOnTransportFailures(t *testing.T) {
	dispatcher := &mocks.MockDispatcher{
		SendTemplateMessageFunc: func(context.Context, string, notification.Template, notification.Credentials) (*notification.SendResult, error) {
			return nil, domainErrors.NewDispatchError(0, 0, "", errors.New("connection refused"))
		},
	}
	b := NewDispatcherBreaker(dispatcher, testResilience(), nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := b.SendTemplateMessage(context.Background(), "919876543210", notification.Template{Name: "x"}, notification.Credentials{})
		require.ErrorIs(t, err, domainErrors.ErrDispatchFailed)
	}
	_, err := b.SendTextMessage(context.Background(), "919876543210", "hi", notification.Credentials{})
	assert.ErrorIs(t, err, domainErrors.ErrCircuitOpen)
	assert.Equal(t, 3, dispatcher.SentCount())
}

func TestProviderHealthy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"validation", domainErrors.NewValidationError("to", "bad"), true},
		{"gateway 400", domainErrors.NewGatewayError("x", 400, "", "", nil), true},
		{"gateway 429", domainErrors.NewGatewayError("x", 429, "", "", nil), false},
		{"gateway 500", domainErrors.NewGatewayError("x", 500, "", "", nil), false},
		{"gateway transport", domainErrors.NewGatewayError("x", 0, "", "", context.DeadlineExceeded), false},
		{"dispatch 401", domainErrors.NewDispatchError(401, 190, "token expired", nil), true},
		{"dispatch 503", domainErrors.NewDispatchError(503, 0, "", nil), false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, providerHealthy(tt.err))
		})
	}
}

func TestRetryingGateway_RetriesTransientReads(t *testing.T) {
	calls := 0
	gateway := &mocks.MockGateway{
		GetPaymentFunc: func(_ context.Context, id string) (*payment.PaymentRecord, error) {
			calls++
			if calls < 3 {
				return nil, domainErrors.NewGatewayError("get_payment", 503, "", "", nil)
			}
			return mocks.NewCapturedPayment(id, "order_1", 100), nil
		},
	}
	g := NewRetryingGateway(gateway, testResilience(), zerolog.Nop())

	record, err := g.GetPayment(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", record.ID)
	assert.Equal(t, 3, calls)
}

func TestRetryingGateway_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	gateway := &mocks.MockGateway{
		GetPaymentFunc: func(context.Context, string) (*payment.PaymentRecord, error) {
			calls++
			return nil, domainErrors.NewGatewayError("get_payment", 400, "BAD_REQUEST_ERROR", "The id provided does not exist", nil)
		},
	}
	g := NewRetryingGateway(gateway, testResilience(), zerolog.Nop())

	_, err := g.GetPayment(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
	assert.Equal(t, 1, calls)
}

func TestRetryingGateway_WritesPassThrough(t *testing.T) {
	calls := 0
	gateway := &mocks.MockGateway{
		RefundPaymentFunc: func(context.Context, string, *int64) (*payment.RefundRecord, error) {
			calls++
			return nil, domainErrors.NewGatewayError("refund_payment", 503, "", "", nil)
		},
	}
	g := NewRetryingGateway(gateway, testResilience(), zerolog.Nop())

	_, err := g.RefundPayment(context.Background(), "pay_1", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestMeteredGateway_RecordsOutcome(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	g := NewMeteredGateway(&mocks.MockGateway{}, metrics)

	_, err := g.CreateOrder(context.Background(), payment.CreateOrderParams{Amount: 100})
	require.NoError(t, err)
	_, err = g.GetPayment(context.Background(), "pay_missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("create_order", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("get_payment", "rejected")))
}

func TestMeteredDispatcher_RecordsKind(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	d := NewMeteredDispatcher(&mocks.MockDispatcher{}, metrics)

	_, err := d.SendTextMessage(context.Background(), "919876543210", "hello", notification.Credentials{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DispatchRequests.WithLabelValues("text", "success")))
}
