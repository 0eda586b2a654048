package meli_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/fretelab/mlfrete/pkg/quote/meli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *meli.MockAPIClient) *meli.Client {
	logger := otelzap.New(zap.NewNop())
	return meli.NewWithAPIClient(meli.Config{}, mockClient, logger, nil)
}

func optionsResponse(listCosts ...meli.Number) *meli.ShippingOptionsResponse {
	resp := &meli.ShippingOptionsResponse{ItemID: "MLB123"}
	for i, lc := range listCosts {
		resp.Options = append(resp.Options, meli.ShippingOption{
			ID:       int64(100 + i),
			Name:     fmt.Sprintf("option-%d", i),
			Currency: "BRL",
			ListCost: lc,
		})
	}
	return resp
}

func TestClient_FetchShippingCost_Success(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	client := newTestClient(mockAPI)

	cost, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.NoError(t, err)
	// The mock's third option carries list_cost 25.90.
	assert.Equal(t, 25.90, cost.Amount)
	assert.Equal(t, "BRL", cost.Currency)
}

func TestClient_FetchShippingCost_ThirdOptionSelected(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return optionsResponse(10.00, 20.00, 30.00, 40.00), nil
	}
	client := newTestClient(mockAPI)

	cost, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.NoError(t, err)
	assert.Equal(t, 30.00, cost.Amount)
}

func TestClient_FetchShippingCost_TwoOptionsIsNotEnough(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return optionsResponse(10.00, 20.00), nil
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeNoOptions, quote.Code(err))
	assert.Equal(t, "No shipping options available", quote.Reason(err))
}

func TestClient_FetchShippingCost_EmptyOptions(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return &meli.ShippingOptionsResponse{ItemID: adID}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeNoOptions, quote.Code(err))
}

func TestClient_FetchShippingCost_SimulatedServerError(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeServerError, quote.Code(err))
}

func TestClient_FetchShippingCost_StatusClassification(t *testing.T) {
	tests := []struct {
		status     int
		wantCode   string
		wantReason string
	}{
		{500, quote.CodeServerError, "Server error (500). The Mercado Livre API is experiencing issues. Please try again later."},
		{404, quote.CodeNotFound, "Item not found (404). Verify the ad ID and try again."},
		{429, quote.CodeRateLimited, "Too many requests (429). Please wait a few minutes and try again."},
		{418, quote.CodeHTTPStatus, "Unexpected HTTP error (418). Contact the developer if this persists."},
		{503, quote.CodeHTTPStatus, "Unexpected HTTP error (503). Contact the developer if this persists."},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			mockAPI := meli.NewMockAPIClient()
			mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
				return nil, &meli.APIError{StatusCode: tt.status, Message: "upstream says no"}
			}
			client := newTestClient(mockAPI)

			_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, quote.Code(err))
			assert.Equal(t, tt.wantReason, quote.Reason(err))

			var qerr *quote.QuoteError
			require.True(t, errors.As(err, &qerr))
			assert.Equal(t, tt.status, qerr.StatusCode)
		})
	}
}

func TestClient_FetchShippingCost_ConnectionError(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return nil, &url.Error{Op: "Get", URL: "https://api.mercadolibre.com", Err: errors.New("connection refused")}
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeConnection, quote.Code(err))
}

func TestClient_FetchShippingCost_InvalidPayload(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return nil, fmt.Errorf("%w: unexpected end of JSON input", meli.ErrInvalidPayload)
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeInvalidResponse, quote.Code(err))
}

func TestClient_FetchShippingCost_UnexpectedError(t *testing.T) {
	mockAPI := meli.NewMockAPIClient()
	mockAPI.OnGetShippingOptions = func(ctx context.Context, adID, zipCode string) (*meli.ShippingOptionsResponse, error) {
		return nil, errors.New("something odd happened")
	}
	client := newTestClient(mockAPI)

	_, err := client.FetchShippingCost(context.Background(), "MLB123", "01001000")

	require.Error(t, err)
	assert.Equal(t, quote.CodeUnexpected, quote.Code(err))
	assert.Contains(t, quote.Reason(err), "something odd happened")
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(meli.NewMockAPIClient())
	assert.Equal(t, "mercadolivre", client.Name())
}
