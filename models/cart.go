package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

// Cart is the running cart supplied by the cart provider at order-creation
// time. TotalPrice is in minor currency units.
type Cart struct {
	ID         string     `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"total_price"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
