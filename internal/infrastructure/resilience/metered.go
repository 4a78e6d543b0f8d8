package resilience

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
)

// MeteredGateway records request counts and latency per gateway operation.
type MeteredGateway struct {
	next    Gateway
	metrics *observability.Metrics
}

func NewMeteredGateway(next Gateway, metrics *observability.Metrics) *MeteredGateway {
	return &MeteredGateway{next: next, metrics: metrics}
}

func (g *MeteredGateway) observe(op string, start time.Time, err error) {
	g.metrics.GatewayDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	g.metrics.GatewayRequests.WithLabelValues(op, outcome(err)).Inc()
}

func (g *MeteredGateway) CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error) {
	start := time.Now()
	order, err := g.next.CreateOrder(ctx, params)
	g.observe("create_order", start, err)
	return order, err
}

func (g *MeteredGateway) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	start := time.Now()
	record, err := g.next.GetPayment(ctx, paymentID)
	g.observe("get_payment", start, err)
	return record, err
}

func (g *MeteredGateway) RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error) {
	start := time.Now()
	refund, err := g.next.RefundPayment(ctx, paymentID, amount)
	g.observe("refund_payment", start, err)
	return refund, err
}

// MeteredDispatcher records request counts and latency per message kind.
type MeteredDispatcher struct {
	next    Dispatcher
	metrics *observability.Metrics
}

func NewMeteredDispatcher(next Dispatcher, metrics *observability.Metrics) *MeteredDispatcher {
	return &MeteredDispatcher{next: next, metrics: metrics}
}

func (d *MeteredDispatcher) observe(kind string, start time.Time, err error) {
	d.metrics.DispatchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	d.metrics.DispatchRequests.WithLabelValues(kind, outcome(err)).Inc()
}

func (d *MeteredDispatcher) SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error) {
	start := time.Now()
	result, err := d.next.SendTemplateMessage(ctx, to, tmpl, creds)
	d.observe("template", start, err)
	return result, err
}

func (d *MeteredDispatcher) SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error) {
	start := time.Now()
	result, err := d.next.SendTextMessage(ctx, to, text, creds)
	d.observe("text", start, err)
	return result, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainErrors.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, domainErrors.ErrGatewayUnavailable), errors.Is(err, domainErrors.ErrDispatchFailed):
		return "rejected"
	default:
		return "error"
	}
}
