package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fretelab/mlfrete/internal/server"
	"github.com/fretelab/mlfrete/internal/telemetry"
	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/fretelab/mlfrete/pkg/quote/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Prometheus registration is global, so all tests share one Metrics.
var testMetrics = telemetry.NewMetrics()

func newTestServer(fetcher quote.Fetcher) *server.Server {
	logger := otelzap.New(zap.NewNop())
	coord := quote.NewCoordinator(fetcher, logger)
	return server.New(server.Config{Port: 8080}, coord, logger, testMetrics)
}

func postQuotes(t *testing.T, srv *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(mock.New("test"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Quotes_Success(t *testing.T) {
	fetcher := mock.New("test")
	fetcher.Cost = 25.90

	srv := newTestServer(fetcher)
	rec := postQuotes(t, srv, `{"ad_ids": "MLB1,abc,MLB2", "zip_code": "01.001-000"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		BatchID string `json:"batch_id"`
		ZipCode string `json:"zip_code"`
		Results []struct {
			Input    string   `json:"input"`
			AdID     string   `json:"ad_id"`
			Status   string   `json:"status"`
			Cost     *float64 `json:"cost"`
			Currency string   `json:"currency"`
			Reason   string   `json:"reason"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, "01001000", resp.ZipCode)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "MLB1", resp.Results[0].AdID)
	assert.Equal(t, "ok", resp.Results[0].Status)
	require.NotNil(t, resp.Results[0].Cost)
	assert.Equal(t, 25.90, *resp.Results[0].Cost)
	assert.Equal(t, "BRL", resp.Results[0].Currency)

	assert.Equal(t, "abc", resp.Results[1].Input)
	assert.Equal(t, "invalid", resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Reason, "Invalid ad ID")

	assert.Equal(t, "MLB2", resp.Results[2].AdID)
	assert.Equal(t, "ok", resp.Results[2].Status)
}

func TestServer_Quotes_FetchFailure(t *testing.T) {
	fetcher := mock.New("test")
	fetcher.OnFetch = func(ctx context.Context, adID, zipCode string) (quote.Money, error) {
		return quote.Money{}, quote.NewQuoteError("test", quote.CodeNotFound,
			"Item not found (404). Verify the ad ID and try again.")
	}

	srv := newTestServer(fetcher)
	rec := postQuotes(t, srv, `{"ad_ids": "MLB1", "zip_code": "01001000"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "failed", resp.Results[0].Status)
	assert.Equal(t, "Item not found (404). Verify the ad ID and try again.", resp.Results[0].Reason)
}

func TestServer_Quotes_InvalidZip(t *testing.T) {
	srv := newTestServer(mock.New("test"))
	rec := postQuotes(t, srv, `{"ad_ids": "MLB1", "zip_code": "0100100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid ZIP code")
}

func TestServer_Quotes_EmptyAdIDs(t *testing.T) {
	srv := newTestServer(mock.New("test"))
	rec := postQuotes(t, srv, `{"ad_ids": " ,\n ", "zip_code": "01001000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one ad ID")
}

func TestServer_Quotes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(mock.New("test"))

	req := httptest.NewRequest(http.MethodGet, "/quotes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Quotes_InvalidJSON(t *testing.T) {
	srv := newTestServer(mock.New("test"))

	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON")
}
