package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	notificationApp "github.com/sonar-shubham/radiant-salon/internal/application/notification"
	paymentApp "github.com/sonar-shubham/radiant-salon/internal/application/payment"
	"github.com/sonar-shubham/radiant-salon/internal/bootstrap"
	"github.com/sonar-shubham/radiant-salon/internal/controller"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/postgres"
	infraRedis "github.com/sonar-shubham/radiant-salon/internal/infrastructure/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "salon-api", "salon")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	cfg := app.Config

	// --- Repositories ---
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	notificationRepo := postgres.NewNotificationRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Providers ---
	gateway := app.PaymentGateway()

	// --- Use cases ---
	payments := controller.PaymentUseCases{
		CreateOrder:      paymentApp.NewCreateOrderUseCase(transactionRepo, gateway),
		VerifyPayment:    paymentApp.NewVerifyPaymentUseCase(transactionRepo, notificationRepo, gateway, outboxRepo, txManager, cfg.Razorpay.KeySecret),
		GetPayment:       paymentApp.NewGetPaymentUseCase(gateway),
		RefundPayment:    paymentApp.NewRefundPaymentUseCase(transactionRepo, gateway, outboxRepo, txManager),
		GetTransaction:   paymentApp.NewGetTransactionUseCase(transactionRepo),
		ListTransactions: paymentApp.NewListTransactionsUseCase(transactionRepo),
	}
	createNotificationUC := notificationApp.NewCreateNotificationUseCase(notificationRepo, outboxRepo, txManager)
	getNotificationUC := notificationApp.NewGetNotificationUseCase(notificationRepo)
	applyStatusUC := notificationApp.NewApplyStatusUseCase(notificationRepo, txManager)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		DB:                     app.Pool,
		Redis:                  infraRedis.Checker{Client: app.Redis},
		PaymentController:      controller.NewPaymentController(payments, cfg.Razorpay.KeyID, app.Metrics),
		NotificationController: controller.NewNotificationController(createNotificationUC, getNotificationUC),
		WebhookController:      controller.NewWebhookController(applyStatusUC, cfg.WhatsApp.AppSecret, cfg.WhatsApp.VerifyToken, app.Metrics, app.Logger),
		IdempotencyStore:       idempotencyRepo,
		IdempotencyTTL:         cfg.Worker.IdempotencyTTL,
		Metrics:                app.Metrics,
		CORSConfig:             cfg.Server.CORS,
		JWTSecret:              cfg.Auth.JWTSecret,
		RateLimit:              cfg.Server.RateLimit,
		Logger:                 app.Logger,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
