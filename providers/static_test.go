package providers

import (
	"context"
	"testing"

	"order-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProviderGetRates(t *testing.T) {
	p := NewStaticProvider()

	rates, err := p.GetRates(context.Background(), []models.RateRequest{{WeightKg: 1}})
	require.NoError(t, err)
	require.Len(t, rates, 2)
	for _, r := range rates {
		assert.NotEmpty(t, r.Carrier)
		assert.NotEmpty(t, r.ServiceName)
		assert.Equal(t, int64(1000), r.TotalRate)
	}
}

func TestStaticProviderCreateAndTrackShipment(t *testing.T) {
	p := NewStaticProvider()

	shipment, err := p.CreateShipment(context.Background(), nil, "FedEx", "Ground")
	require.NoError(t, err)
	assert.NotEmpty(t, shipment.TrackingNumber)

	info, err := p.TrackShipment(context.Background(), shipment.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, shipment.TrackingNumber, info.TrackingNumber)

	_, err = p.TrackShipment(context.Background(), "")
	assert.Error(t, err)
}

func TestCalculateTax(t *testing.T) {
	assert.Equal(t, int64(600), CalculateTax(5000, 1000))
	assert.Equal(t, int64(0), CalculateTax(0, 0))
}
