package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/postgres"
)

const (
	IdempotencyHeader       = "Idempotency-Key"
	maxIdempotencyBodySize  = 1 << 20
	defaultIdempotencyTTL   = 24 * time.Hour
	idempotencyReplayHeader = "X-Idempotency-Replayed"
)

// IdempotencyStore persists responses by client key.
type IdempotencyStore interface {
	Get(ctx context.Context, salonID, key string) (*postgres.IdempotencyEntry, error)
	Set(ctx context.Context, entry *postgres.IdempotencyEntry) error
}

// Idempotency replays the stored response for a repeated Idempotency-Key. A
// key reused with a different request is rejected. Server errors are not
// stored so the client can retry them.
func Idempotency(store IdempotencyStore, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			salonID, _ := GetSalonID(r.Context())

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotencyBodySize+1))
			if err != nil {
				writeIdempotencyError(w, http.StatusBadRequest, "could not read request body", "invalid_body")
				return
			}
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			if len(body) > maxIdempotencyBodySize {
				next.ServeHTTP(w, r)
				return
			}
			hash := requestHash(r.Method, r.URL.Path, body)

			entry, err := store.Get(r.Context(), salonID, key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Idempotency lookup failed, processing request")
			}
			if entry != nil {
				if entry.RequestHash != hash {
					writeIdempotencyError(w, http.StatusUnprocessableEntity,
						"idempotency key was already used for a different request", "idempotency_key_reused")
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(idempotencyReplayHeader, "true")
				w.WriteHeader(entry.ResponseStatus)
				w.Write([]byte(entry.ResponseBody))
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode >= 500 || rec.bodyTruncated {
				return
			}
			now := time.Now()
			if err := store.Set(r.Context(), &postgres.IdempotencyEntry{
				SalonID:        salonID,
				Key:            key,
				RequestHash:    hash,
				ResponseBody:   rec.body.String(),
				ResponseStatus: rec.statusCode,
				CreatedAt:      now,
				ExpiresAt:      now.Add(ttl),
			}); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Failed to store idempotent response")
			}
		})
	}
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func writeIdempotencyError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  code,
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode    int
	body          *bytes.Buffer
	bodyTruncated bool
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.bodyTruncated {
		if r.body.Len()+len(b) > maxIdempotencyBodySize {
			r.bodyTruncated = true
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}
