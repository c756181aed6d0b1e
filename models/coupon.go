package models

import "time"

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Coupon is a promotional coupon document in the trusted store. Evaluation
// only reads coupons; the usage counter is bumped at order placement.
type Coupon struct {
	Code           string     `bson:"code" json:"code"`
	Type           CouponType `bson:"type" json:"type"`
	Value          float64    `bson:"value" json:"value"`
	MinOrderAmount float64    `bson:"min_order_amount" json:"min_order_amount"`
	ExpiryDate     time.Time  `bson:"expiry_date" json:"expiry_date"`
	IsActive       bool       `bson:"is_active" json:"is_active"`
	UsageLimit     int        `bson:"usage_limit" json:"usage_limit"`
	UsageCount     int        `bson:"usage_count" json:"usage_count"`
}

// CouponResult is the outcome of evaluating a coupon against a verified
// subtotal. A missing or ineligible coupon is not an error: the order simply
// proceeds with a zero discount.
type CouponResult struct {
	Discount float64 `json:"discount"`
	Applied  bool    `json:"applied"`
	Message  string  `json:"message,omitempty"`
}
