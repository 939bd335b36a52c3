package notifier

import (
	"context"

	"order-service/models"
)

// Notifier sends customer-facing order emails. Calls are fire-and-forget from
// the orchestrator's point of view: a send failure must never fail the
// business operation that triggered it.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendShippingUpdate(ctx context.Context, order *models.Order, status models.OrderStatus) error
}
