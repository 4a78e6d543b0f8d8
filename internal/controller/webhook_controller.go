package controller

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	notificationApp "github.com/sonar-shubham/radiant-salon/internal/application/notification"
	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/whatsapp"
	"github.com/sonar-shubham/radiant-salon/pkg/signature"
)

const maxWebhookBody = 1 << 20

// unknownMessageGrace is how long a receipt for an unknown message id is
// refused so the provider redelivers it. The worker may not have stored the
// message id yet when the first receipt arrives.
const unknownMessageGrace = 5 * time.Minute

// WebhookController receives WhatsApp Cloud API callbacks.
type WebhookController struct {
	applyStatus *notificationApp.ApplyStatusUseCase
	appSecret   string
	verifyToken string
	metrics     *observability.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

func NewWebhookController(
	applyStatus *notificationApp.ApplyStatusUseCase,
	appSecret, verifyToken string,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *WebhookController {
	return &WebhookController{
		applyStatus: applyStatus,
		appSecret:   appSecret,
		verifyToken: verifyToken,
		metrics:     metrics,
		logger:      logger.With().Str("component", "whatsapp_webhook").Logger(),
		now:         time.Now,
	}
}

// Subscribe handles GET /webhooks/whatsapp, the subscription handshake.
func (h *WebhookController) Subscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("hub.verify_token")
	if q.Get("hub.mode") != "subscribe" || h.verifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "verification failed", Code: "forbidden"})
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, q.Get("hub.challenge"))
}

// Receive handles POST /webhooks/whatsapp. The signature covers the raw body,
// so it is checked before any decoding. Out-of-order statuses are logged and
// acknowledged, as are receipts for unknown messages once they are older than
// unknownMessageGrace. Fresh unknown receipts answer 503 and storage failures
// answer 500 so the provider redelivers; reapplying a receipt is a no-op.
func (h *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large", Code: "payload_too_large"})
		return
	}

	if !signature.VerifyWebhookSignature(body, r.Header.Get(whatsapp.SignatureHeader), h.appSecret) {
		h.recordSignature("rejected")
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected webhook with invalid signature")
		writeError(w, domainErrors.ErrSignatureMismatch)
		return
	}
	h.recordSignature("valid")

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn().Err(err).Msg("Ignoring undecodable webhook payload")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	failed, early := false, false
	for _, u := range payload.StatusUpdates() {
		n, err := h.applyStatus.Execute(r.Context(), notificationApp.StatusUpdate{
			ExternalMessageID: u.ExternalMessageID,
			Status:            u.Status,
			At:                u.At,
		})
		switch {
		case err == nil:
			if h.metrics != nil {
				h.metrics.NotificationsStatus.WithLabelValues(string(n.Type), string(n.Status)).Inc()
			}
		case errors.Is(err, domainErrors.ErrNotificationNotFound):
			if h.now().Sub(u.At) < unknownMessageGrace {
				early = true
				h.logger.Info().Str("message_id", u.ExternalMessageID).Msg("Status arrived before its message was recorded, asking for redelivery")
				continue
			}
			h.logger.Debug().Str("message_id", u.ExternalMessageID).Msg("Status for unknown message")
		case errors.Is(err, domainErrors.ErrInvalidStateTransition):
			h.logger.Info().
				Str("message_id", u.ExternalMessageID).
				Str("status", string(u.Status)).
				Str("reason", u.Reason).
				Msg("Ignoring out-of-order status")
		default:
			failed = true
			h.logger.Error().Err(err).Str("message_id", u.ExternalMessageID).Msg("Failed to apply status")
		}
	}

	if failed {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to apply statuses", Code: "internal_error"})
		return
	}
	if early {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "message not recorded yet", Code: "status_early"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookController) recordSignature(result string) {
	if h.metrics != nil {
		h.metrics.SignatureVerifications.WithLabelValues("whatsapp_webhook", result).Inc()
	}
}
