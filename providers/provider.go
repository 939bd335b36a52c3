package providers

import (
	"context"

	"order-service/models"
)

// ShippingProvider is the carrier-facing contract. One rate request per
// parcel; implementations return candidate carrier/service quotes across all
// parcels combined.
type ShippingProvider interface {
	GetRates(ctx context.Context, requests []models.RateRequest) ([]models.ShippingRate, error)
	CreateShipment(ctx context.Context, requests []models.RateRequest, carrier, serviceName string) (*models.Shipment, error)
	TrackShipment(ctx context.Context, trackingNumber string) (*models.TrackingInformation, error)
	CancelShipment(ctx context.Context, trackingNumber string) error
}

// CalculateTax estimates tax on an order total plus shipping.
// TODO: replace with a real tax service integration; flat 10% is a placeholder.
func CalculateTax(price, shipping int64) int64 {
	return (price + shipping) / 10
}
