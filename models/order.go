package models

import "time"

// Order statuses.
const (
	OrderStatusPlaced         = "placed"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusPaymentFailed  = "payment_failed"
	OrderStatusRefunded       = "refunded"
)

// Payment methods.
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// VerifiedLineItem is a cart line re-priced from the trusted store. Produced
// fresh per request and never mutated afterwards.
type VerifiedLineItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	LineTotal float64 `bson:"line_total" json:"line_total"`
}

// VerifiedTotals is the result of recomputing an order total server-side.
type VerifiedTotals struct {
	VerifiedTotal float64            `json:"verified_total"`
	Discount      float64            `json:"discount"`
	FinalTotal    float64            `json:"final_total"`
	Items         []VerifiedLineItem `json:"items"`
}

// Order is an order document in the trusted store.
type Order struct {
	ID             string             `bson:"_id" json:"order_id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	Items          []VerifiedLineItem `bson:"items" json:"items"`
	Subtotal       float64            `bson:"subtotal" json:"subtotal"`
	Discount       float64            `bson:"discount" json:"discount"`
	Total          float64            `bson:"total" json:"total"`
	CouponCode     string             `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	PaymentMethod  string             `bson:"payment_method" json:"payment_method"`
	Status         string             `bson:"status" json:"status"`
	GatewayOrderID string             `bson:"gateway_order_id,omitempty" json:"gateway_order_id,omitempty"`
	PaymentID      string             `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	ShipmentID     string             `bson:"shipment_id,omitempty" json:"shipment_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// CheckoutRequest is the payload for COD and gateway checkout. Client prices
// are deliberately absent from the shape: totals are recomputed server-side.
type CheckoutRequest struct {
	Items      []CartItem `json:"items" binding:"required,min=1,dive"`
	CouponCode string     `json:"coupon_code"`
}
