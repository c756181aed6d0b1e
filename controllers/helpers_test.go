package controllers_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront-backend/middleware"
	"github.com/yashrajoria/storefront-backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func hmacHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func farFuture() time.Time {
	return time.Now().Add(365 * 24 * time.Hour)
}

// asUser stands in for the JWT middleware in handler tests.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserKey, userID)
		c.Next()
	}
}

// memLedger is an in-memory LedgerRepository with injectable failures.
type memLedger struct {
	payments map[string]*models.ProcessedPayment
	events   map[string]*models.ProcessedWebhookEvent
	err      error
}

func newMemLedger() *memLedger {
	return &memLedger{
		payments: make(map[string]*models.ProcessedPayment),
		events:   make(map[string]*models.ProcessedWebhookEvent),
	}
}

func (m *memLedger) GetProcessedPayment(ctx context.Context, paymentID string) (*models.ProcessedPayment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payments[paymentID], nil
}

func (m *memLedger) ClaimPayment(ctx context.Context, rec *models.ProcessedPayment) (bool, *models.ProcessedPayment, error) {
	if m.err != nil {
		return false, nil, m.err
	}
	if prior, ok := m.payments[rec.PaymentID]; ok {
		return false, prior, nil
	}
	m.payments[rec.PaymentID] = rec
	return true, nil, nil
}

func (m *memLedger) GetProcessedEvent(ctx context.Context, eventID string) (*models.ProcessedWebhookEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events[eventID], nil
}

func (m *memLedger) ClaimEvent(ctx context.Context, rec *models.ProcessedWebhookEvent) (bool, *models.ProcessedWebhookEvent, error) {
	if m.err != nil {
		return false, nil, m.err
	}
	if prior, ok := m.events[rec.EventID]; ok {
		return false, prior, nil
	}
	m.events[rec.EventID] = rec
	return true, nil, nil
}

// orderTransition records one status update applied to the order store.
type orderTransition struct {
	Key       string
	Status    string
	PaymentID string
}

// memOrders is an in-memory OrderRepository for handler tests.
type memOrders struct {
	transitions []orderTransition
	matched     bool
	updateErr   error
}

func (m *memOrders) Create(ctx context.Context, order *models.Order) error { return nil }

func (m *memOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return nil, nil
}

func (m *memOrders) FindByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, error) {
	return nil, nil
}

func (m *memOrders) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	return nil, nil
}

func (m *memOrders) UpdateStatusByGatewayOrderID(ctx context.Context, gatewayOrderID, status, paymentID string) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	m.transitions = append(m.transitions, orderTransition{Key: gatewayOrderID, Status: status, PaymentID: paymentID})
	return m.matched, nil
}

func (m *memOrders) UpdateStatusByPaymentID(ctx context.Context, paymentID, status string) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	m.transitions = append(m.transitions, orderTransition{Key: paymentID, Status: status})
	return m.matched, nil
}

// recordingSNS captures published messages.
type recordingSNS struct {
	messages [][]byte
	err      error
}

func (m *recordingSNS) Publish(ctx context.Context, topicArn string, message []byte) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, message)
	return nil
}
