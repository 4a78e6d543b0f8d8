package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
)

// Breaker names, also used as the metrics label.
const (
	BreakerRazorpay = "razorpay"
	BreakerWhatsApp = "whatsapp"
)

// Gateway mirrors the payment gateway port.
type Gateway interface {
	CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error)
	GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error)
	RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error)
}

// Dispatcher mirrors the messaging port.
type Dispatcher interface {
	SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error)
	SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error)
}

func newSettings(name string, cfg config.ResilienceConfig, metrics *observability.Metrics, logger zerolog.Logger) gobreaker.Settings {
	threshold := uint32(cfg.CircuitBreakerThreshold)
	if threshold == 0 {
		threshold = 10
	}
	timeout := cfg.CircuitBreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if metrics != nil {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))
	}

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.6
		},
		IsSuccessful: providerHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			if metrics != nil {
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			}
		},
	}
}

// providerHealthy counts an outcome against the provider only when the
// provider itself misbehaved. Bad input and 4xx rejections are the caller's.
func providerHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, domainErrors.ErrValidationFailed) || errors.Is(err, context.Canceled) {
		return true
	}
	var gwErr *domainErrors.GatewayError
	if errors.As(err, &gwErr) {
		return isClientError(gwErr.StatusCode)
	}
	var dispatchErr *domainErrors.DispatchError
	if errors.As(err, &dispatchErr) {
		return isClientError(dispatchErr.StatusCode)
	}
	return false
}

func isClientError(status int) bool {
	return status >= 400 && status < 500 && status != 429
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func execute[T any](cb *gobreaker.CircuitBreaker[T], metrics *observability.Metrics, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		if metrics != nil {
			metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
		}
		return result, fmt.Errorf("%s: %w", cb.Name(), domainErrors.ErrCircuitOpen)
	}
	if metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), outcome).Inc()
	}
	return result, err
}

// GatewayBreaker guards a payment gateway with one breaker per operation so a
// failing refund endpoint does not block order creation.
type GatewayBreaker struct {
	next    Gateway
	metrics *observability.Metrics
	orders  *gobreaker.CircuitBreaker[*payment.Order]
	reads   *gobreaker.CircuitBreaker[*payment.PaymentRecord]
	refunds *gobreaker.CircuitBreaker[*payment.RefundRecord]
}

func NewGatewayBreaker(next Gateway, cfg config.ResilienceConfig, metrics *observability.Metrics, logger zerolog.Logger) *GatewayBreaker {
	return &GatewayBreaker{
		next:    next,
		metrics: metrics,
		orders:  gobreaker.NewCircuitBreaker[*payment.Order](newSettings(BreakerRazorpay+"_orders", cfg, metrics, logger)),
		reads:   gobreaker.NewCircuitBreaker[*payment.PaymentRecord](newSettings(BreakerRazorpay+"_payments", cfg, metrics, logger)),
		refunds: gobreaker.NewCircuitBreaker[*payment.RefundRecord](newSettings(BreakerRazorpay+"_refunds", cfg, metrics, logger)),
	}
}

func (b *GatewayBreaker) CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error) {
	order, err := execute(b.orders, b.metrics, func() (*payment.Order, error) {
		return b.next.CreateOrder(ctx, params)
	})
	return order, gatewayOpen("create_order", err)
}

func (b *GatewayBreaker) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	record, err := execute(b.reads, b.metrics, func() (*payment.PaymentRecord, error) {
		return b.next.GetPayment(ctx, paymentID)
	})
	return record, gatewayOpen("get_payment", err)
}

func (b *GatewayBreaker) RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error) {
	refund, err := execute(b.refunds, b.metrics, func() (*payment.RefundRecord, error) {
		return b.next.RefundPayment(ctx, paymentID, amount)
	})
	return refund, gatewayOpen("refund_payment", err)
}

// gatewayOpen reports a rejected call as a GatewayError that still matches
// ErrCircuitOpen.
func gatewayOpen(op string, err error) error {
	if err == nil || !errors.Is(err, domainErrors.ErrCircuitOpen) {
		return err
	}
	var gwErr *domainErrors.GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return domainErrors.NewGatewayError(op, 0, "", "circuit open", err)
}

// DispatcherBreaker guards the messaging provider.
type DispatcherBreaker struct {
	next    Dispatcher
	metrics *observability.Metrics
	cb      *gobreaker.CircuitBreaker[*notification.SendResult]
}

func NewDispatcherBreaker(next Dispatcher, cfg config.ResilienceConfig, metrics *observability.Metrics, logger zerolog.Logger) *DispatcherBreaker {
	return &DispatcherBreaker{
		next:    next,
		metrics: metrics,
		cb:      gobreaker.NewCircuitBreaker[*notification.SendResult](newSettings(BreakerWhatsApp, cfg, metrics, logger)),
	}
}

func (b *DispatcherBreaker) SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error) {
	return execute(b.cb, b.metrics, func() (*notification.SendResult, error) {
		return b.next.SendTemplateMessage(ctx, to, tmpl, creds)
	})
}

func (b *DispatcherBreaker) SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error) {
	return execute(b.cb, b.metrics, func() (*notification.SendResult, error) {
		return b.next.SendTextMessage(ctx, to, text, creds)
	})
}
