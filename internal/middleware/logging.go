package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLog writes one line per authenticated API call, attributed to the
// salon and staff member from the token. Mount it after RequireAuth.
func RequestLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			var event *zerolog.Event
			switch {
			case ww.statusCode >= 500:
				event = logger.Error()
			case ww.statusCode >= 400:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			route := routePattern(r)
			if route == "" {
				route = r.URL.Path
			}
			salonID, _ := GetSalonID(r.Context())
			event = event.Str("salon_id", salonID)
			if staffID, ok := GetStaffID(r.Context()); ok {
				event = event.Str("staff_id", staffID)
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				event = event.Str("request_id", reqID)
			}
			event.Str("method", r.Method).
				Str("route", route).
				Int("status", ww.statusCode).
				Dur("duration", time.Since(start)).
				Msg("API request")
		})
	}
}
