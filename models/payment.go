package models

import "time"

// VerifyPaymentRequest is the synchronous verify payload sent by the client
// after Razorpay checkout completes. Field names follow the gateway's wire
// format exactly.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// ProcessedPayment marks a gateway payment id as verified. Its existence is
// the sole idempotency signal for the synchronous verify path: created once
// per payment id, never updated, never deleted.
type ProcessedPayment struct {
	PaymentID string    `bson:"_id" json:"payment_id"`
	OrderID   string    `bson:"order_id" json:"order_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ProcessedPaymentStatus is the only status a ProcessedPayment ever carries.
const ProcessedPaymentStatus = "verified"

// PaymentEvent is published to SNS when a payment changes state.
type PaymentEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id,omitempty"`
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
