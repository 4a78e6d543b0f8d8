package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	paymentApp "github.com/sonar-shubham/radiant-salon/internal/application/payment"
	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
	"github.com/sonar-shubham/radiant-salon/internal/infrastructure/observability"
	customMW "github.com/sonar-shubham/radiant-salon/internal/middleware"
)

// PaymentController handles order, payment and transaction requests.
type PaymentController struct {
	createOrder      *paymentApp.CreateOrderUseCase
	verifyPayment    *paymentApp.VerifyPaymentUseCase
	getPayment       *paymentApp.GetPaymentUseCase
	refundPayment    *paymentApp.RefundPaymentUseCase
	getTransaction   *paymentApp.GetTransactionUseCase
	listTransactions *paymentApp.ListTransactionsUseCase
	keyID            string
	metrics          *observability.Metrics
}

// PaymentUseCases groups the use cases the payment routes call.
type PaymentUseCases struct {
	CreateOrder      *paymentApp.CreateOrderUseCase
	VerifyPayment    *paymentApp.VerifyPaymentUseCase
	GetPayment       *paymentApp.GetPaymentUseCase
	RefundPayment    *paymentApp.RefundPaymentUseCase
	GetTransaction   *paymentApp.GetTransactionUseCase
	ListTransactions *paymentApp.ListTransactionsUseCase
}

// NewPaymentController creates a new PaymentController. keyID is the public
// gateway key handed to the checkout widget. metrics may be nil.
func NewPaymentController(uc PaymentUseCases, keyID string, metrics *observability.Metrics) *PaymentController {
	return &PaymentController{
		createOrder:      uc.CreateOrder,
		verifyPayment:    uc.VerifyPayment,
		getPayment:       uc.GetPayment,
		refundPayment:    uc.RefundPayment,
		getTransaction:   uc.GetTransaction,
		listTransactions: uc.ListTransactions,
		keyID:            keyID,
		metrics:          metrics,
	}
}

// CreateOrder handles POST /api/v1/orders
func (h *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.createOrder.Execute(r.Context(), paymentApp.CreateOrderRequest{
		SalonID:       salonID,
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Receipt:       req.Receipt,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Transactions.WithLabelValues(string(resp.Transaction.Type), string(resp.Transaction.Status)).Inc()
	}
	writeJSON(w, http.StatusCreated, OrderResponse{
		Order:       resp.Order,
		KeyID:       h.keyID,
		Transaction: FromTransaction(resp.Transaction),
	})
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := paymentApp.VerifyPaymentRequest{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	}
	if req.Receipt != nil {
		in.Receipt = &paymentApp.ReceiptDetails{
			Recipient:   req.Receipt.Recipient,
			ClientName:  req.Receipt.ClientName,
			ServiceName: req.Receipt.ServiceName,
		}
	}

	tx, err := h.verifyPayment.Execute(r.Context(), in)
	if h.metrics != nil {
		result := "valid"
		if errors.Is(err, domainErrors.ErrSignatureMismatch) {
			result = "rejected"
		}
		h.metrics.SignatureVerifications.WithLabelValues("razorpay_checkout", result).Inc()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.Transactions.WithLabelValues(string(tx.Type), string(tx.Status)).Inc()
	}

	writeJSON(w, http.StatusOK, FromTransaction(tx))
}

// GetPayment handles GET /api/v1/payments/{paymentId}
func (h *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.getPayment.Execute(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// RefundPayment handles POST /api/v1/payments/{paymentId}/refund
func (h *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req RefundRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.refundPayment.Execute(r.Context(), paymentApp.RefundPaymentRequest{
		SalonID:   salonID,
		PaymentID: chi.URLParam(r, "paymentId"),
		Amount:    req.Amount,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Transactions.WithLabelValues(string(tx.Type), string(tx.Status)).Inc()
	}
	writeJSON(w, http.StatusCreated, FromTransaction(tx))
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (h *PaymentController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.getTransaction.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	// Other salons' records are reported as missing.
	if tx.SalonID != salonID {
		writeError(w, domainErrors.ErrTransactionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, FromTransaction(tx))
}

// ListTransactions handles GET /api/v1/transactions
func (h *PaymentController) ListTransactions(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := payment.ListFilter{
		SalonID:       salonID,
		ClientID:      q.Get("client_id"),
		AppointmentID: q.Get("appointment_id"),
	}

	if s := q.Get("status"); s != "" {
		status, err := payment.ParseTransactionStatus(s)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}
	if s := q.Get("type"); s != "" {
		txType, err := payment.ParseTransactionType(s)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Type = &txType
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", 20); err != nil {
		writeError(w, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		writeError(w, err)
		return
	}

	txs, err := h.listTransactions.Execute(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := TransactionListResponse{
		Transactions: make([]*TransactionResponse, len(txs)),
		Count:        len(txs),
		Offset:       filter.Offset,
	}
	for i, tx := range txs {
		resp.Transactions[i] = FromTransaction(tx)
	}
	writeJSON(w, http.StatusOK, resp)
}
