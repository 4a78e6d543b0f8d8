package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits requests per minute per salon, falling back to the client
// IP for unauthenticated routes such as provider webhooks.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(keyBySalonOrIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "rate limit exceeded",
				"code":  "rate_limit",
			})
		}),
	)
}

func keyBySalonOrIP(r *http.Request) (string, error) {
	if salonID, ok := GetSalonID(r.Context()); ok {
		return "salon:" + salonID, nil
	}
	return httprate.KeyByIP(r)
}
