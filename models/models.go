package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping or billing address. It is embedded into orders so the
// order keeps the address as entered at purchase time.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1" binding:"required"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string      `gorm:"uniqueIndex;not null"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index"`
	OrderDate         time.Time   `gorm:"not null"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Currency          string      `gorm:"type:varchar(3);not null"`
	TotalAmount       int64       `gorm:"not null"`
	AppliedCouponCode *string
	PaymentIntentID   *string `gorm:"index"`
	CheckoutSessionID *string `gorm:"index"`
	ShippingAddress   Address `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress    Address `gorm:"embedded;embeddedPrefix:billing_"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	OrderItems        []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History           []OrderHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem records the quantity and unit price captured at order-creation
// time. PriceAtPurchase never tracks later catalog price changes.
type OrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null"`
	VariantID       uuid.UUID `gorm:"type:uuid;not null"`
	Quantity        int       `gorm:"not null"`
	PriceAtPurchase int64     `gorm:"not null"`
}

// OrderHistory is an append-only audit entry; rows are never updated or
// deleted. One row is written for every accepted status transition.
type OrderHistory struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	PreviousStatus OrderStatus `gorm:"type:varchar(20);not null"`
	NewStatus      OrderStatus `gorm:"type:varchar(20);not null"`
	Notes          *string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Inventory tracks stock for a single product variant. Version is the
// concurrency token guarding against lost updates; every successful write
// increments it.
type Inventory struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	QuantityOnHand   int       `gorm:"not null"`
	ReservedQuantity int       `gorm:"not null"`
	ReorderThreshold int       `gorm:"not null"`
	IsReorderNeeded  bool      `gorm:"not null"`
	Version          int64     `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}
