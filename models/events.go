package models

import (
	"time"

	"github.com/google/uuid"
)

// Order event types published to Kafka.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the envelope other services consume to react to order
// lifecycle changes.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   uuid.UUID   `json:"order_id"`
	UserID    uuid.UUID   `json:"user_id"`
	Status    OrderStatus `json:"status"`
	Amount    int64       `json:"amount"`
	Currency  string      `json:"currency"`
	Timestamp time.Time   `json:"timestamp"`
}
