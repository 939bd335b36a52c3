package payment

import (
	"context"

	apperrors "order-service/errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/refund"
	"github.com/stripe/stripe-go/v80/webhook"
)

// LineItem is one purchasable row on a checkout session.
type LineItem struct {
	Name     string
	Price    int64 // minor units
	Quantity int
}

// Gateway is the payment-processor contract the order core depends on.
// Amounts are in minor currency units. Every created object carries the order
// id in its metadata so webhooks can be reconciled back to an order.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, orderID uuid.UUID) (string, error)
	CreateCheckoutSession(ctx context.Context, items []LineItem, currency string, orderID uuid.UUID, successURL, cancelURL string) (string, error)
	CreateRefund(ctx context.Context, paymentIntentID string, amount int64, orderID uuid.UUID) (string, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	webhookSecret string
}

// NewStripeGateway configures the Stripe client and returns a gateway.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

// CreatePaymentIntent creates an intent and returns its client secret.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, orderID uuid.UUID) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: map[string]string{
			"orderId": orderID.String(),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", apperrors.Payment("An error occurred while processing the payment.", err)
	}
	return pi.ClientSecret, nil
}

// CreateCheckoutSession creates a hosted checkout session and returns its id.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, items []LineItem, currency string, orderID uuid.UUID, successURL, cancelURL string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				UnitAmount: stripe.Int64(item.Price),
				Currency:   stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Metadata: map[string]string{
			"orderId": orderID.String(),
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", apperrors.Payment("An error occurred while creating the checkout session.", err)
	}
	return sess.ID, nil
}

// CreateRefund refunds amount against the given payment intent.
func (g *StripeGateway) CreateRefund(ctx context.Context, paymentIntentID string, amount int64, orderID uuid.UUID) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amount),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
		Metadata: map[string]string{
			"orderId": orderID.String(),
		},
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", apperrors.Payment("An error occurred while processing the refund.", err)
	}
	return r.ID, nil
}

// VerifyWebhook checks the Stripe signature and returns the decoded event.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return stripe.Event{}, apperrors.BadRequest("Invalid webhook signature: %v", err)
	}
	return event, nil
}
