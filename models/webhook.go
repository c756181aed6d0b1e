package models

import "time"

// Webhook event types the router recognizes. Anything else is accepted as a
// no-op so unknown event types never block the gateway.
const (
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventOrderPaid         = "order.paid"
	EventRefundCreated     = "refund.created"
)

// WebhookEvent is the parsed gateway event envelope. Parsing happens only
// after the raw body signature has been verified.
type WebhookEvent struct {
	ID        string         `json:"id"`
	Entity    string         `json:"entity"`
	Event     string         `json:"event"`
	Contains  []string       `json:"contains"`
	Payload   WebhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}

// WebhookPayload carries one typed entity per event family. Each handler
// validates that its entity is present before touching nested fields, so the
// router never reads an unchecked shape.
type WebhookPayload struct {
	Payment *PaymentEntityWrapper `json:"payment,omitempty"`
	Order   *OrderEntityWrapper   `json:"order,omitempty"`
	Refund  *RefundEntityWrapper  `json:"refund,omitempty"`
}

type PaymentEntityWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type OrderEntityWrapper struct {
	Entity OrderEntity `json:"entity"`
}

type RefundEntityWrapper struct {
	Entity RefundEntity `json:"entity"`
}

// PaymentEntity is the gateway's payment object, reduced to the fields the
// router acts on.
type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Email    string `json:"email"`
}

// OrderEntity is the gateway's order object.
type OrderEntity struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
}

// RefundEntity is the gateway's refund object.
type RefundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// ProcessedWebhookEvent marks a gateway event id as durably processed. It is
// written only after the event's side effects have succeeded; its absence is
// the replay signal that lets the gateway retry safely.
type ProcessedWebhookEvent struct {
	EventID     string    `bson:"_id" json:"event_id"`
	EventType   string    `bson:"event_type" json:"event_type"`
	PaymentID   string    `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	ProcessedAt time.Time `bson:"processed_at" json:"processed_at"`
	Status      string    `bson:"status" json:"status"`
	RetryCount  int       `bson:"retry_count" json:"retry_count"`
}

// ProcessedWebhookEventStatus is the only status a ProcessedWebhookEvent
// ever carries.
const ProcessedWebhookEventStatus = "processed"
