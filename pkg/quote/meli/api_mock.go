package meli

import (
	"context"
	"net/http"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetShippingOptions func(ctx context.Context, adID, zipCode string) (*ShippingOptionsResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetShippingOptions returns mock shipping options.
func (m *MockAPIClient) GetShippingOptions(ctx context.Context, adID, zipCode string) (*ShippingOptionsResponse, error) {
	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SimulateErrors {
		return nil, &APIError{
			StatusCode: http.StatusInternalServerError,
			Code:       "internal_error",
			Message:    "Simulated API error",
		}
	}

	if m.OnGetShippingOptions != nil {
		return m.OnGetShippingOptions(ctx, adID, zipCode)
	}

	return &ShippingOptionsResponse{
		ItemID: adID,
		Options: []ShippingOption{
			{
				ID:               100,
				Name:             "Normal",
				ShippingMethodID: 100009,
				Currency:         "BRL",
				Cost:             18.95,
				ListCost:         21.45,
			},
			{
				ID:               101,
				Name:             "Expresso",
				ShippingMethodID: 182,
				Currency:         "BRL",
				Cost:             27.90,
				ListCost:         31.20,
			},
			{
				ID:               102,
				Name:             "Mercado Envios",
				ShippingMethodID: 501245,
				Currency:         "BRL",
				Cost:             22.45,
				ListCost:         25.90,
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
