package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"order-service/models"
)

const shippoBaseURL = "https://api.goshippo.com"

// ShippoProvider implements ShippingProvider using the Shippo API.
type ShippoProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewShippoProvider creates a new ShippoProvider.
func NewShippoProvider(apiKey string) *ShippoProvider {
	return &ShippoProvider{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- Shippo API request/response structs ----

type shippoAddress struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type shippoParcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type shippoShipmentRequest struct {
	AddressFrom shippoAddress  `json:"address_from"`
	AddressTo   shippoAddress  `json:"address_to"`
	Parcels     []shippoParcel `json:"parcels"`
	Async       bool           `json:"async"`
}

type shippoRate struct {
	ObjectID     string `json:"object_id"`
	Provider     string `json:"provider"`
	ServiceLevel struct {
		Name string `json:"name"`
	} `json:"servicelevel"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimated_days"`
}

type shippoShipmentResponse struct {
	Rates []shippoRate `json:"rates"`
}

type shippoTransactionRequest struct {
	Rate          string `json:"rate"`
	Async         bool   `json:"async"`
	LabelFileType string `json:"label_file_type"`
}

type shippoTransactionResponse struct {
	ObjectID       string `json:"object_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
	Messages       []struct {
		Text string `json:"text"`
	} `json:"messages"`
}

type shippoTrackResponse struct {
	TrackingNumber  string `json:"tracking_number"`
	Carrier         string `json:"carrier"`
	TrackingStatus  struct {
		Status     string `json:"status"`
		StatusDate string `json:"status_date"`
		Location   struct {
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"location"`
	} `json:"tracking_status"`
	TrackingHistory []struct {
		Status        string `json:"status"`
		StatusDetails string `json:"status_details"`
		StatusDate    string `json:"status_date"`
		Location      struct {
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"location"`
	} `json:"tracking_history"`
}

// ---- ShippingProvider implementation ----

// GetRates quotes every parcel and intersects the candidate services: only a
// (carrier, service) pair quoted for each parcel is offered, with rates summed
// across parcels and the latest delivery estimate kept.
func (s *ShippoProvider) GetRates(ctx context.Context, requests []models.RateRequest) ([]models.ShippingRate, error) {
	type key struct{ carrier, service string }
	combined := map[key]*models.ShippingRate{}
	seen := map[key]int{}

	for _, req := range requests {
		var resp shippoShipmentResponse
		if err := s.doRequest(ctx, http.MethodPost, "/shipments/", toShippoShipment(req), &resp); err != nil {
			return nil, fmt.Errorf("shippo GetRates: %w", err)
		}

		for _, r := range resp.Rates {
			amount, err := strconv.ParseFloat(r.Amount, 64)
			if err != nil {
				continue
			}
			k := key{r.Provider, r.ServiceLevel.Name}
			seen[k]++

			eta := time.Now().UTC().AddDate(0, 0, r.EstimatedDays)
			if existing, ok := combined[k]; ok {
				existing.TotalRate += int64(amount * 100)
				if eta.After(existing.EstimatedDeliveryDate) {
					existing.EstimatedDeliveryDate = eta
				}
			} else {
				combined[k] = &models.ShippingRate{
					Carrier:               r.Provider,
					ServiceName:           r.ServiceLevel.Name,
					TotalRate:             int64(amount * 100),
					Currency:              r.Currency,
					EstimatedDeliveryDate: eta,
				}
			}
		}
	}

	rates := make([]models.ShippingRate, 0, len(combined))
	for k, rate := range combined {
		if seen[k] == len(requests) {
			rates = append(rates, *rate)
		}
	}
	return rates, nil
}

// CreateShipment quotes the parcels as one shipment, picks the rate matching
// carrier/serviceName and purchases the label.
func (s *ShippoProvider) CreateShipment(ctx context.Context, requests []models.RateRequest, carrier, serviceName string) (*models.Shipment, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("shippo CreateShipment: no parcels")
	}

	shipment := toShippoShipment(requests[0])
	for _, req := range requests[1:] {
		shipment.Parcels = append(shipment.Parcels, toShippoParcel(req))
	}

	var quoted shippoShipmentResponse
	if err := s.doRequest(ctx, http.MethodPost, "/shipments/", shipment, &quoted); err != nil {
		return nil, fmt.Errorf("shippo CreateShipment: %w", err)
	}

	rateID := ""
	for _, r := range quoted.Rates {
		if r.Provider == carrier && (serviceName == "" || r.ServiceLevel.Name == serviceName) {
			rateID = r.ObjectID
			break
		}
	}
	if rateID == "" {
		return nil, fmt.Errorf("shippo CreateShipment: no rate for %s %s", carrier, serviceName)
	}

	var tx shippoTransactionResponse
	txReq := shippoTransactionRequest{Rate: rateID, Async: false, LabelFileType: "PDF"}
	if err := s.doRequest(ctx, http.MethodPost, "/transactions/", txReq, &tx); err != nil {
		return nil, fmt.Errorf("shippo CreateShipment: %w", err)
	}
	if tx.Status != "SUCCESS" {
		msg := "label creation failed"
		if len(tx.Messages) > 0 {
			msg = tx.Messages[0].Text
		}
		return nil, fmt.Errorf("shippo CreateShipment: %s", msg)
	}

	return &models.Shipment{
		TrackingNumber: tx.TrackingNumber,
		LabelURLs:      []string{tx.LabelURL},
	}, nil
}

// TrackShipment retrieves current status and history from Shippo.
func (s *ShippoProvider) TrackShipment(ctx context.Context, trackingNumber string) (*models.TrackingInformation, error) {
	path := fmt.Sprintf("/tracks/shippo/%s", trackingNumber)

	var resp shippoTrackResponse
	if err := s.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("shippo TrackShipment: %w", err)
	}

	info := &models.TrackingInformation{
		TrackingNumber: resp.TrackingNumber,
		Carrier:        resp.Carrier,
		CurrentStatus:  resp.TrackingStatus.Status,
	}
	for _, ev := range resp.TrackingHistory {
		ts := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, ev.StatusDate); err == nil {
			ts = t
		}
		location := ""
		if ev.Location.City != "" {
			location = fmt.Sprintf("%s, %s, %s", ev.Location.City, ev.Location.State, ev.Location.Country)
		}
		info.Events = append(info.Events, models.TrackingEvent{
			Timestamp:   ts,
			Location:    location,
			Description: ev.StatusDetails,
		})
	}
	return info, nil
}

// CancelShipment requests a label refund for the shipment.
func (s *ShippoProvider) CancelShipment(ctx context.Context, trackingNumber string) error {
	body := map[string]string{"transaction": trackingNumber}
	if err := s.doRequest(ctx, http.MethodPost, "/refunds/", body, &struct{}{}); err != nil {
		return fmt.Errorf("shippo CancelShipment: %w", err)
	}
	return nil
}

// ---- helpers ----

func toShippoShipment(req models.RateRequest) shippoShipmentRequest {
	return shippoShipmentRequest{
		AddressFrom: toShippoAddress(req.Origin),
		AddressTo:   toShippoAddress(req.Destination),
		Parcels:     []shippoParcel{toShippoParcel(req)},
		Async:       false,
	}
}

func toShippoParcel(req models.RateRequest) shippoParcel {
	return shippoParcel{
		Length:       fmt.Sprintf("%.1f", req.LengthCm),
		Width:        fmt.Sprintf("%.1f", req.WidthCm),
		Height:       fmt.Sprintf("%.1f", req.HeightCm),
		DistanceUnit: "cm",
		Weight:       fmt.Sprintf("%.3f", req.WeightKg),
		MassUnit:     "kg",
	}
}

func toShippoAddress(a models.Address) shippoAddress {
	return shippoAddress{
		Name:    a.Name,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.PostalCode,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

func (s *ShippoProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, shippoBaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "ShippoToken "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shippo returned %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
