// Package signature verifies HMAC-SHA256 signatures on payment callbacks and
// provider webhooks.
//
// Verification is fail-closed: any missing or malformed argument yields false.
// Callers must verify the exact bytes received, before decoding them.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WebhookPrefix is the scheme prefix of the X-Hub-Signature-256 header value.
const WebhookPrefix = "sha256="

// SignPayment returns the hex HMAC-SHA256 of "orderID|paymentID" keyed by secret.
func SignPayment(orderID, paymentID, secret string) string {
	return hex.EncodeToString(digest([]byte(orderID+"|"+paymentID), secret))
}

// SignWebhook returns the header value expected for payload: "sha256=<hex>".
func SignWebhook(payload []byte, appSecret string) string {
	return WebhookPrefix + hex.EncodeToString(digest(payload, appSecret))
}

// VerifyPaymentSignature reports whether signature is the gateway's signature for
// the given order and payment.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	return equalHex(signature, digest([]byte(orderID+"|"+paymentID), secret))
}

// VerifyWebhookSignature reports whether signature ("sha256=<hex>") matches the
// raw payload. An empty payload verifies like any other.
func VerifyWebhookSignature(payload []byte, signature, appSecret string) bool {
	if appSecret == "" {
		return false
	}
	hexSig, ok := strings.CutPrefix(signature, WebhookPrefix)
	if !ok || hexSig == "" {
		return false
	}
	return equalHex(hexSig, digest(payload, appSecret))
}

func digest(message []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return mac.Sum(nil)
}

// equalHex decodes the presented signature and compares in constant time.
// Uppercase hex is rejected so that only the canonical encoding verifies.
func equalHex(presented string, expected []byte) bool {
	if len(presented) != hex.EncodedLen(len(expected)) || strings.ToLower(presented) != presented {
		return false
	}
	got, err := hex.DecodeString(presented)
	if err != nil {
		return false
	}
	return hmac.Equal(got, expected)
}
