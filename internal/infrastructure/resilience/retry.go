package resilience

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
	"github.com/sonar-shubham/radiant-salon/pkg/retry"
)

// RetryingGateway retries payment lookups on transient failures. Order
// creation and refunds are not idempotent at the gateway and pass through.
type RetryingGateway struct {
	Gateway
	cfg    retry.Config
	logger zerolog.Logger
}

func NewRetryingGateway(next Gateway, cfg config.ResilienceConfig, logger zerolog.Logger) *RetryingGateway {
	rc := retry.DefaultConfig()
	if cfg.ReadRetryAttempts > 0 {
		rc.MaxAttempts = cfg.ReadRetryAttempts
	}
	if cfg.ReadRetryDelay > 0 {
		rc.InitialDelay = cfg.ReadRetryDelay
	}
	rc.RetryIf = Transient
	return &RetryingGateway{Gateway: next, cfg: rc, logger: logger}
}

func (g *RetryingGateway) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	cfg := g.cfg
	cfg.OnRetry = func(attempt uint, err error) {
		g.logger.Warn().Err(err).Uint("attempt", attempt+1).Str("payment_id", paymentID).Msg("Retrying payment lookup")
	}
	return retry.DoWithResult(ctx, cfg, func() (*payment.PaymentRecord, error) {
		return g.Gateway.GetPayment(ctx, paymentID)
	})
}

// Transient reports whether a gateway failure may succeed on a later attempt:
// transport errors, rate limiting and 5xx answers.
func Transient(err error) bool {
	if errors.Is(err, domainErrors.ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	var gwErr *domainErrors.GatewayError
	if !errors.As(err, &gwErr) {
		return false
	}
	return gwErr.StatusCode == 0 || gwErr.StatusCode == 429 || gwErr.StatusCode >= 500
}
