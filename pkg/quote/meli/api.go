package meli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// APIClient defines the interface for Mercado Livre shipping API operations.
// This abstraction allows for mock implementations during testing and real
// implementations in production.
type APIClient interface {
	// GetShippingOptions fetches the shipping options for a listing shipped
	// from the given origin ZIP code.
	GetShippingOptions(ctx context.Context, adID, zipCode string) (*ShippingOptionsResponse, error)
}

// ErrInvalidPayload wraps response bodies that could not be decoded.
var ErrInvalidPayload = errors.New("invalid response payload")

// ============================================================================
// API Request/Response Types (match Mercado Livre REST API structure)
// ============================================================================

// ShippingOptionsResponse represents the response of
// GET /items/{id}/shipping_options.
type ShippingOptionsResponse struct {
	ItemID  string           `json:"item_id"`
	Options []ShippingOption `json:"options"`
}

// ShippingOption represents a single shipping-method quote.
type ShippingOption struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ShippingMethodID int64  `json:"shipping_method_id"`
	Currency         string `json:"currency_id"`
	Cost             Number `json:"cost"`
	ListCost         Number `json:"list_cost"`
	EstimatedDays    int    `json:"estimated_delivery_limit,omitempty"`
}

// Number decodes JSON values that the API serves either as a bare number or
// as a quoted string.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as number: %w", string(data), err)
	}
	*n = Number(f)
	return nil
}

// APIError represents a non-2xx response from the Mercado Livre API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mercado livre API error (HTTP %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("mercado livre API error (HTTP %d): %s", e.StatusCode, e.Message)
}
