// Package razorpay is a thin REST client for the Razorpay orders, payments and
// refunds APIs. It performs exactly one HTTP call per operation and never retries.
package razorpay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
)

const (
	OpCreateOrder   = "create_order"
	OpGetPayment    = "get_payment"
	OpRefundPayment = "refund_payment"
)

type Client struct {
	httpClient      *resty.Client
	defaultCurrency string
	now             func() time.Time
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type refundRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Field       string `json:"field,omitempty"`
	} `json:"error"`
}

func NewClient(cfg config.RazorpayConfig) *Client {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	return &Client{
		httpClient:      client,
		defaultCurrency: currency,
		now:             time.Now,
	}
}

// CreateOrder registers an expected payment with the gateway. The returned order
// is the gateway's record; nothing is stored locally.
func (c *Client) CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error) {
	currency := params.Currency
	if currency == "" {
		currency = c.defaultCurrency
	}
	if err := payment.ValidateAmount(params.Amount, currency); err != nil {
		return nil, err
	}

	receipt := params.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("receipt_%d", c.now().UnixMilli())
	}

	var order payment.Order
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(orderRequest{
			Amount:   params.Amount,
			Currency: currency,
			Receipt:  receipt,
			Notes:    params.Notes,
		}).
		SetResult(&order).
		SetError(&errorResponse{}).
		Post("/orders")
	if err := checkResponse(OpCreateOrder, resp, err); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetPayment fetches the current gateway state of a payment. No caching.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	if paymentID == "" {
		return nil, errors.NewValidationError("payment_id", "is required")
	}

	var record payment.PaymentRecord
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("paymentId", paymentID).
		SetResult(&record).
		SetError(&errorResponse{}).
		Get("/payments/{paymentId}")
	if err := checkResponse(OpGetPayment, resp, err); err != nil {
		return nil, err
	}

	return &record, nil
}

// RefundPayment refunds amount, or the full captured amount when amount is nil.
// The upper bound is enforced by the gateway. Repeated calls are not deduplicated.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error) {
	if paymentID == "" {
		return nil, errors.NewValidationError("payment_id", "is required")
	}
	if amount != nil && *amount <= 0 {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}

	var refund payment.RefundRecord
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("paymentId", paymentID).
		SetBody(refundRequest{Amount: amount}).
		SetResult(&refund).
		SetError(&errorResponse{}).
		Post("/payments/{paymentId}/refund")
	if err := checkResponse(OpRefundPayment, resp, err); err != nil {
		return nil, err
	}

	return &refund, nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return errors.NewGatewayError(op, 0, "", "", err)
	}
	if resp.IsSuccess() {
		return nil
	}

	code, message := "", http.StatusText(resp.StatusCode())
	if body, ok := resp.Error().(*errorResponse); ok && body.Error.Description != "" {
		code = body.Error.Code
		message = body.Error.Description
	}
	return errors.NewGatewayError(op, resp.StatusCode(), code, message, nil)
}
