package models

import "time"

// RateRequest describes one parcel to be quoted: where it ships from, where
// it ships to, and its weight/dimensions.
type RateRequest struct {
	Origin      Address `json:"origin"`
	Destination Address `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
}

// ShippingRate is one candidate carrier/service quote. TotalRate is in minor
// currency units.
type ShippingRate struct {
	Carrier               string    `json:"carrier"`
	ServiceName           string    `json:"service_name"`
	TotalRate             int64     `json:"total_rate"`
	Currency              string    `json:"currency"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
}

type Shipment struct {
	TrackingNumber string   `json:"tracking_number"`
	LabelURLs      []string `json:"label_urls"`
}

type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

type TrackingInformation struct {
	TrackingNumber string          `json:"tracking_number"`
	Carrier        string          `json:"carrier"`
	CurrentStatus  string          `json:"current_status"`
	Events         []TrackingEvent `json:"events"`
}
