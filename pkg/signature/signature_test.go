package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known vector computed independently of SignPayment.
func referenceHMAC(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature_RoundTrip(t *testing.T) {
	cases := []struct{ orderID, paymentID, secret string }{
		{"order_DBJOWzybf0sJbb", "pay_DBJOWzybf0sJbb", "rzp_secret"},
		{"order_1", "pay_1", "s"},
		{"order_ünïcode", "pay_|pipe|", "another secret with spaces"},
	}

	for _, c := range cases {
		t.Run(c.orderID, func(t *testing.T) {
			sig := referenceHMAC(c.orderID+"|"+c.paymentID, c.secret)
			assert.Equal(t, sig, SignPayment(c.orderID, c.paymentID, c.secret))
			assert.True(t, VerifyPaymentSignature(c.orderID, c.paymentID, sig, c.secret))
		})
	}
}

func TestVerifyPaymentSignature_SingleCharFlip(t *testing.T) {
	sig := SignPayment("order_abc", "pay_xyz", "secret")

	for i := range sig {
		for _, r := range []byte{'0', 'f', 'F', 'z', ' '} {
			if sig[i] == r {
				continue
			}
			flipped := []byte(sig)
			flipped[i] = r
			assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", string(flipped), "secret"),
				"flip at %d to %q must not verify", i, r)
		}
	}
}

func TestVerifyPaymentSignature_FailClosed(t *testing.T) {
	sig := SignPayment("order_abc", "pay_xyz", "secret")

	tests := []struct {
		name                          string
		orderID, paymentID, sig, secret string
	}{
		{"empty order", "", "pay_xyz", sig, "secret"},
		{"empty payment", "order_abc", "", sig, "secret"},
		{"empty signature", "order_abc", "pay_xyz", "", "secret"},
		{"empty secret", "order_abc", "pay_xyz", sig, ""},
		{"wrong secret", "order_abc", "pay_xyz", sig, "other"},
		{"swapped ids", "pay_xyz", "order_abc", sig, "secret"},
		{"truncated", "order_abc", "pay_xyz", sig[:10], "secret"},
		{"uppercase hex", "order_abc", "pay_xyz", toUpper(sig), "secret"},
		{"not hex", "order_abc", "pay_xyz", "zz" + sig[2:], "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPaymentSignature(tt.orderID, tt.paymentID, tt.sig, tt.secret))
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"object":"whatsapp_business_account","entry":[{"id":"1"}]}`)
	header := SignWebhook(payload, "app-secret")

	assert.Equal(t, "sha256="+referenceHMAC(string(payload), "app-secret"), header)
	assert.True(t, VerifyWebhookSignature(payload, header, "app-secret"))

	t.Run("any payload byte change invalidates", func(t *testing.T) {
		for i := range payload {
			changed := append([]byte(nil), payload...)
			changed[i] ^= 0x01
			assert.False(t, VerifyWebhookSignature(changed, header, "app-secret"), "byte %d", i)
		}
	})

	t.Run("whitespace re-serialization invalidates", func(t *testing.T) {
		reformatted := []byte(`{"object": "whatsapp_business_account", "entry": [{"id": "1"}]}`)
		assert.False(t, VerifyWebhookSignature(reformatted, header, "app-secret"))
	})

	t.Run("prefix is required", func(t *testing.T) {
		bare := header[len(WebhookPrefix):]
		assert.False(t, VerifyWebhookSignature(payload, bare, "app-secret"))
		assert.False(t, VerifyWebhookSignature(payload, "sha1="+bare, "app-secret"))
		assert.False(t, VerifyWebhookSignature(payload, WebhookPrefix, "app-secret"))
	})

	t.Run("fail closed on empty inputs", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(nil, header, "app-secret"))
		assert.False(t, VerifyWebhookSignature(payload, "", "app-secret"))
		assert.False(t, VerifyWebhookSignature(payload, header, ""))
	})

	t.Run("empty payload with its own signature", func(t *testing.T) {
		emptyHeader := "sha256=" + referenceHMAC("", "app-secret")
		assert.Equal(t, emptyHeader, SignWebhook(nil, "app-secret"))
		assert.True(t, VerifyWebhookSignature(nil, emptyHeader, "app-secret"))
		assert.True(t, VerifyWebhookSignature([]byte{}, emptyHeader, "app-secret"))
		assert.False(t, VerifyWebhookSignature(nil, emptyHeader, "other-secret"))
	})
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
