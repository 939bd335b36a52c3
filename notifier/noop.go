package notifier

import (
	"context"

	"order-service/models"
)

// NoopNotifier is used when SMTP is not configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (NoopNotifier) SendOrderConfirmation(context.Context, *models.Order) error {
	return nil
}

func (NoopNotifier) SendShippingUpdate(context.Context, *models.Order, models.OrderStatus) error {
	return nil
}
