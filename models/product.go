package models

import "github.com/google/uuid"

// HostedAt says whether the seller ships the product themselves or it ships
// from the warehouse. It decides the origin address on rate requests.
type HostedAt string

const (
	HostedAtStore     HostedAt = "store"
	HostedAtWarehouse HostedAt = "warehouse"
)

// Product is the catalog view the order core needs; resolved through the
// product service, never mutated here.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	WeightKg      float64   `json:"weight_kg"`
	LengthCm      float64   `json:"length_cm"`
	WidthCm       float64   `json:"width_cm"`
	HeightCm      float64   `json:"height_cm"`
	HostedAt      HostedAt  `json:"hosted_at"`
	SellerAddress Address   `json:"seller_address"`
}
