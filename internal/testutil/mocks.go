package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/sonar-shubham/radiant-salon/internal/domain/outbox"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

// --- Transaction Repository Mock ---

// The in-memory repositories store and hand out copies, so a caller's
// mutation only reaches the "database" through a successful Create or Update.
func cloneTransaction(tx *payment.Transaction) *payment.Transaction {
	c := *tx
	return &c
}

func cloneNotification(n *notification.Notification) *notification.Notification {
	c := *n
	return &c
}

// MockTransactionRepository is an in-memory payment.Repository.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*payment.Transaction

	CreateFunc           func(ctx context.Context, tx *payment.Transaction) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*payment.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*payment.Transaction, error)
	GetByOrderIDFunc     func(ctx context.Context, orderID string) (*payment.Transaction, error)
	GetByPaymentIDFunc   func(ctx context.Context, paymentID string) (*payment.Transaction, error)
	UpdateFunc           func(ctx context.Context, tx *payment.Transaction) error
	ListFunc             func(ctx context.Context, filter payment.ListFilter) ([]*payment.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[uuid.UUID]*payment.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, domainErrors.ErrTransactionNotFound
	}
	return cloneTransaction(tx), nil
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*payment.Transaction, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return m.find(func(tx *payment.Transaction) bool {
		return tx.Type == payment.TypePayment && tx.RazorpayOrderID != nil && *tx.RazorpayOrderID == orderID
	})
}

func (m *MockTransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*payment.Transaction, error) {
	if m.GetByPaymentIDFunc != nil {
		return m.GetByPaymentIDFunc(ctx, paymentID)
	}
	return m.find(func(tx *payment.Transaction) bool {
		return tx.Type == payment.TypePayment && tx.RazorpayPaymentID != nil && *tx.RazorpayPaymentID == paymentID
	})
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.ID]; !ok {
		return domainErrors.ErrTransactionNotFound
	}
	m.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter payment.ListFilter) ([]*payment.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*payment.Transaction
	for _, tx := range m.transactions {
		if filter.SalonID != "" && tx.SalonID != filter.SalonID {
			continue
		}
		result = append(result, cloneTransaction(tx))
	}
	return result, nil
}

// All returns every stored transaction.
func (m *MockTransactionRepository) All() []*payment.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*payment.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		result = append(result, cloneTransaction(tx))
	}
	return result
}

func (m *MockTransactionRepository) find(match func(*payment.Transaction) bool) (*payment.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if match(tx) {
			return cloneTransaction(tx), nil
		}
	}
	return nil, domainErrors.ErrTransactionNotFound
}

// --- Notification Repository Mock ---

// MockNotificationRepository is an in-memory notification.Repository.
type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*notification.Notification

	CreateFunc          func(ctx context.Context, n *notification.Notification) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
	GetByExternalIDFunc func(ctx context.Context, externalMessageID string) (*notification.Notification, error)
	UpdateFunc          func(ctx context.Context, n *notification.Notification) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[uuid.UUID]*notification.Notification),
	}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.ID] = cloneNotification(n)
	return nil
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, domainErrors.ErrNotificationNotFound
	}
	return cloneNotification(n), nil
}

func (m *MockNotificationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return m.GetByID(ctx, id)
}

func (m *MockNotificationRepository) GetByExternalID(ctx context.Context, externalMessageID string) (*notification.Notification, error) {
	if m.GetByExternalIDFunc != nil {
		return m.GetByExternalIDFunc(ctx, externalMessageID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ExternalMessageID != nil && *n.ExternalMessageID == externalMessageID {
			return cloneNotification(n), nil
		}
	}
	return nil, domainErrors.ErrNotificationNotFound
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notifications[n.ID]; !ok {
		return domainErrors.ErrNotificationNotFound
	}
	m.notifications[n.ID] = cloneNotification(n)
	return nil
}

// All returns every stored notification.
func (m *MockNotificationRepository) All() []*notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*notification.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		result = append(result, cloneNotification(n))
	}
	return result
}

// --- Transaction Manager Mock ---

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is a mock implementation of outbox.Repository that
// records inserted entries.
type MockOutboxRepository struct {
	mu      sync.Mutex
	Entries []*outbox.Entry

	InsertFunc        func(ctx context.Context, entry *outbox.Entry) error
	GetPendingFunc    func(ctx context.Context, limit int) ([]*outbox.Entry, error)
	MarkPublishedFunc func(ctx context.Context, id uuid.UUID) error
	MarkFailedFunc    func(ctx context.Context, id uuid.UUID) error
}

var _ outbox.Repository = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) Insert(ctx context.Context, entry *outbox.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id)
	}
	return nil
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id)
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// EventTypes lists the event types inserted so far, in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		types[i] = e.EventType
	}
	return types
}

// --- Gateway Mock ---

// MockGateway is a mock payment gateway client.
type MockGateway struct {
	mu    sync.Mutex
	Calls []string

	CreateOrderFunc   func(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error)
	GetPaymentFunc    func(ctx context.Context, paymentID string) (*payment.PaymentRecord, error)
	RefundPaymentFunc func(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error)
}

func (m *MockGateway) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockGateway) CreateOrder(ctx context.Context, params payment.CreateOrderParams) (*payment.Order, error) {
	m.record("create_order")
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, params)
	}
	currency := params.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}
	return &payment.Order{
		ID:       "order_" + uuid.NewString()[:8],
		Entity:   "order",
		Amount:   params.Amount,
		Currency: currency,
		Receipt:  params.Receipt,
		Status:   payment.OrderCreated,
		Notes:    params.Notes,
	}, nil
}

func (m *MockGateway) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentRecord, error) {
	m.record("get_payment")
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	return nil, domainErrors.NewGatewayError("get_payment", 400, "BAD_REQUEST_ERROR", "The id provided does not exist", nil)
}

func (m *MockGateway) RefundPayment(ctx context.Context, paymentID string, amount *int64) (*payment.RefundRecord, error) {
	m.record("refund_payment")
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, paymentID, amount)
	}
	return nil, domainErrors.NewGatewayError("refund_payment", 400, "BAD_REQUEST_ERROR", "The id provided does not exist", nil)
}

// CallCount returns how many gateway calls were made.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Dispatcher Mock ---

// SentMessage records one dispatcher call.
type SentMessage struct {
	To       string
	Template *notification.Template
	Text     string
	Creds    notification.Credentials
}

// MockDispatcher is a mock messaging client. By default every message is
// accepted with a generated message id.
type MockDispatcher struct {
	mu   sync.Mutex
	Sent []SentMessage

	SendTemplateMessageFunc func(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error)
	SendTextMessageFunc     func(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error)
}

func (m *MockDispatcher) SendTemplateMessage(ctx context.Context, to string, tmpl notification.Template, creds notification.Credentials) (*notification.SendResult, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentMessage{To: to, Template: &tmpl, Creds: creds})
	m.mu.Unlock()
	if m.SendTemplateMessageFunc != nil {
		return m.SendTemplateMessageFunc(ctx, to, tmpl, creds)
	}
	return &notification.SendResult{MessageID: "wamid." + uuid.NewString(), Success: true}, nil
}

func (m *MockDispatcher) SendTextMessage(ctx context.Context, to, text string, creds notification.Credentials) (*notification.SendResult, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentMessage{To: to, Text: text, Creds: creds})
	m.mu.Unlock()
	if m.SendTextMessageFunc != nil {
		return m.SendTextMessageFunc(ctx, to, text, creds)
	}
	return &notification.SendResult{MessageID: "wamid." + uuid.NewString(), Success: true}, nil
}

// SentCount returns how many messages were submitted.
func (m *MockDispatcher) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// --- Credential Store Mock ---

// MockCredentialStore returns per-salon credentials from a map.
type MockCredentialStore struct {
	BySalon map[string]notification.Credentials
	Err     error
}

func (m *MockCredentialStore) WhatsAppCredentials(ctx context.Context, salonID string) (notification.Credentials, error) {
	if m.Err != nil {
		return notification.Credentials{}, m.Err
	}
	return m.BySalon[salonID], nil
}
