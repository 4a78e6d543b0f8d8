package whatsapp

import (
	"strconv"
	"time"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

// SignatureHeader carries "sha256=<hex>" over the raw webhook body.
const SignatureHeader = "X-Hub-Signature-256"

// WebhookPayload is the envelope of a Cloud API webhook delivery.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string          `json:"messaging_product"`
	Statuses         []MessageStatus `json:"statuses"`
}

type MessageStatus struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Timestamp   string         `json:"timestamp"`
	RecipientID string         `json:"recipient_id"`
	Errors      []WebhookError `json:"errors,omitempty"`
}

type WebhookError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// StatusUpdate is one delivery receipt in domain terms.
type StatusUpdate struct {
	ExternalMessageID string
	Status            notification.Status
	At                time.Time
	Reason            string
}

// StatusUpdates flattens the payload into receipts. Statuses the domain does
// not track are dropped.
func (p WebhookPayload) StatusUpdates() []StatusUpdate {
	var updates []StatusUpdate
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, s := range change.Value.Statuses {
				st, err := notification.ParseStatus(s.Status)
				if err != nil || s.ID == "" {
					continue
				}
				u := StatusUpdate{
					ExternalMessageID: s.ID,
					Status:            st,
					At:                parseUnix(s.Timestamp),
				}
				if len(s.Errors) > 0 {
					u.Reason = s.Errors[0].Title
				}
				updates = append(updates, u)
			}
		}
	}
	return updates
}

func parseUnix(ts string) time.Time {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(sec, 0)
}
