package models

import "time"

// Product is a catalog document in the trusted store. Prices are stored in
// display form (e.g. "₹1,599") and parsed server-side; a client-supplied
// price is never consulted.
//
// Products are addressable by either the Mongo primary key or the legacy
// SecondaryID field; lookups must check both.
type Product struct {
	ID          string    `bson:"_id" json:"id"`
	SecondaryID string    `bson:"id,omitempty" json:"-"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       string    `bson:"price" json:"price"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	InStock     bool      `bson:"in_stock" json:"in_stock"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
