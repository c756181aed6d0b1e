package models

import "time"

// CartItem is a caller-supplied cart line. Untrusted: only the product id and
// quantity are ever read from it.
type CartItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// Cart is the Redis-backed cart for a user.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
