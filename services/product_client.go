package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"order-service/models"

	"github.com/google/uuid"
)

// ProductResolver resolves catalog products by id. A missing product returns
// (nil, nil), not an error.
type ProductResolver interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// ProductClient resolves products from the product service over HTTP.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(baseURL string) *ProductClient {
	return &ProductClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *ProductClient) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	url := fmt.Sprintf("%s/products/internal/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product service returned %d", resp.StatusCode)
	}

	var prod models.Product
	if err := json.NewDecoder(resp.Body).Decode(&prod); err != nil {
		return nil, err
	}
	return &prod, nil
}
