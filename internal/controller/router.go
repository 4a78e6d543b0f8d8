package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/config"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	customMW "github.com/sonar-shubham/radiant-salon/internal/middleware"
)

type RouterDeps struct {
	DB                     Pinger
	Redis                  Pinger
	PaymentController      *PaymentController
	NotificationController *NotificationController
	WebhookController      *WebhookController
	IdempotencyStore       customMW.IdempotencyStore
	IdempotencyTTL         time.Duration
	Metrics                *observability.Metrics
	CORSConfig             config.CORSConfig
	JWTSecret              string
	RateLimit              int
	Logger                 zerolog.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", customMW.IdempotencyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))
	r.Use(customMW.SpanRoute)

	healthH := NewHealthController(deps.DB, deps.Redis)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	// Provider callbacks authenticate by signature, not by bearer token.
	r.Route("/webhooks", func(r chi.Router) {
		if deps.RateLimit > 0 {
			r.Use(customMW.RateLimit(deps.RateLimit * 10))
		}
		r.Get("/whatsapp", deps.WebhookController.Subscribe)
		r.Post("/whatsapp", deps.WebhookController.Receive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(customMW.RequireAuth(deps.JWTSecret))
		r.Use(customMW.RequestLog(deps.Logger.With().Str("component", "api").Logger()))
		if deps.RateLimit > 0 {
			r.Use(customMW.RateLimit(deps.RateLimit))
		}

		// Idempotency middleware for mutating endpoints.
		idempotencyMW := customMW.Idempotency(deps.IdempotencyStore, deps.IdempotencyTTL)

		paymentH := deps.PaymentController
		r.With(idempotencyMW).Post("/orders", paymentH.CreateOrder)
		r.With(idempotencyMW).Post("/payments/verify", paymentH.VerifyPayment)
		r.Get("/payments/{paymentId}", paymentH.GetPayment)
		r.With(idempotencyMW).Post("/payments/{paymentId}/refund", paymentH.RefundPayment)
		r.Get("/transactions", paymentH.ListTransactions)
		r.Get("/transactions/{id}", paymentH.GetTransaction)

		notificationH := deps.NotificationController
		r.With(idempotencyMW).Post("/notifications", notificationH.Create)
		r.Get("/notifications/{id}", notificationH.Get)
	})

	return r
}
