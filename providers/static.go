package providers

import (
	"context"
	"fmt"
	"time"

	apperrors "order-service/errors"
	"order-service/models"
)

// StaticProvider returns fixed rates and shipments. It stands in for a real
// carrier integration in development and tests; selected via SHIPPING_PROVIDER
// config, not recompilation.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) GetRates(_ context.Context, _ []models.RateRequest) ([]models.ShippingRate, error) {
	return []models.ShippingRate{
		{
			Carrier:               "DHL",
			ServiceName:           "Ground",
			TotalRate:             1000,
			Currency:              "USD",
			EstimatedDeliveryDate: time.Now().UTC().AddDate(0, 0, 5),
		},
		{
			Carrier:               "FedEx",
			ServiceName:           "2nd Day Air",
			TotalRate:             1000,
			Currency:              "USD",
			EstimatedDeliveryDate: time.Now().UTC().AddDate(0, 0, 5),
		},
	}, nil
}

func (p *StaticProvider) CreateShipment(_ context.Context, _ []models.RateRequest, carrier, serviceName string) (*models.Shipment, error) {
	return &models.Shipment{
		TrackingNumber: fmt.Sprintf("STATIC-%d", time.Now().UnixNano()),
		LabelURLs:      []string{"https://example.com/label.png"},
	}, nil
}

func (p *StaticProvider) TrackShipment(_ context.Context, trackingNumber string) (*models.TrackingInformation, error) {
	if trackingNumber == "" {
		return nil, apperrors.NotFound("Tracking number not found")
	}
	return &models.TrackingInformation{
		TrackingNumber: trackingNumber,
		Carrier:        "FedEx",
		CurrentStatus:  "Shipped",
		Events: []models.TrackingEvent{
			{
				Timestamp:   time.Now().UTC(),
				Location:    "New York, NY",
				Description: "Shipped",
			},
		},
	}, nil
}

func (p *StaticProvider) CancelShipment(_ context.Context, _ string) error {
	return nil
}
