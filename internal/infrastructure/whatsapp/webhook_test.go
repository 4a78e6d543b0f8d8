package whatsapp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
)

const statusWebhook = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA_ID",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "statuses": [
          {"id": "wamid.A", "status": "delivered", "timestamp": "1714550000", "recipient_id": "919876543210"},
          {"id": "wamid.B", "status": "read", "timestamp": "1714550060", "recipient_id": "919876543210"},
          {"id": "wamid.C", "status": "failed", "timestamp": "1714550120", "recipient_id": "919876543210",
           "errors": [{"code": 131026, "title": "Message undeliverable"}]},
          {"id": "wamid.D", "status": "deleted", "timestamp": "1714550180", "recipient_id": "919876543210"}
        ]
      }
    }]
  }]
}`

func TestWebhookPayload_StatusUpdates(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(statusWebhook), &payload))

	updates := payload.StatusUpdates()
	require.Len(t, updates, 3)

	assert.Equal(t, StatusUpdate{
		ExternalMessageID: "wamid.A",
		Status:            notification.StatusDelivered,
		At:                time.Unix(1714550000, 0),
	}, updates[0])
	assert.Equal(t, notification.StatusRead, updates[1].Status)
	assert.Equal(t, notification.StatusFailed, updates[2].Status)
	assert.Equal(t, "Message undeliverable", updates[2].Reason)
}

func TestWebhookPayload_Empty(t *testing.T) {
	assert.Empty(t, WebhookPayload{}.StatusUpdates())
}
