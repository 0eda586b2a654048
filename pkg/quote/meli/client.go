// Package meli provides the Mercado Livre shipping-options API client.
package meli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const providerName = "mercadolivre"

// optionSlot is the index of the shipping option whose list_cost is the
// quoted value. The API orders options by method, and the third slot is the
// one the business reads; responses with fewer options carry no usable quote.
const optionSlot = 2

// Config holds Mercado Livre client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool
}

// Client is the Mercado Livre quote fetcher.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Mercado Livre client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Mercado Livre client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// FetchShippingCost fetches the shipping cost for one ad ID. Every failure
// is returned as a *quote.QuoteError carrying a user-facing message; the
// call never panics on provider misbehavior.
func (c *Client) FetchShippingCost(ctx context.Context, adID, zipCode string) (quote.Money, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "meli.FetchShippingCost",
			trace.WithAttributes(attribute.String("ad_id", adID)))
		defer span.End()
	}

	c.logger.Debug("Fetching shipping options",
		zap.String("ad_id", adID),
		zap.String("zip_code", zipCode),
	)

	resp, err := c.apiClient.GetShippingOptions(ctx, adID, zipCode)
	if err != nil {
		qerr := classifyError(err)
		c.logger.Warn("Mercado Livre API error",
			zap.String("ad_id", adID),
			zap.String("code", qerr.Code),
			zap.Error(err),
		)
		return quote.Money{}, qerr
	}

	if len(resp.Options) <= optionSlot {
		return quote.Money{}, quote.NewQuoteError(providerName, quote.CodeNoOptions,
			"No shipping options available")
	}

	opt := resp.Options[optionSlot]
	currency := opt.Currency
	if currency == "" {
		currency = "BRL"
	}

	return quote.Money{Amount: float64(opt.ListCost), Currency: currency}, nil
}

// classifyError converts any fetch failure into a QuoteError with a
// user-facing message. The catch-all keeps unknown failures inside the
// entry they belong to.
func classifyError(err error) *quote.QuoteError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusInternalServerError:
			return quote.NewQuoteError(providerName, quote.CodeServerError,
				"Server error (500). The Mercado Livre API is experiencing issues. Please try again later.").
				WithStatusCode(apiErr.StatusCode).WithCause(err)
		case http.StatusNotFound:
			return quote.NewQuoteError(providerName, quote.CodeNotFound,
				"Item not found (404). Verify the ad ID and try again.").
				WithStatusCode(apiErr.StatusCode).WithCause(err)
		case http.StatusTooManyRequests:
			return quote.NewQuoteError(providerName, quote.CodeRateLimited,
				"Too many requests (429). Please wait a few minutes and try again.").
				WithStatusCode(apiErr.StatusCode).WithCause(err)
		default:
			return quote.NewQuoteError(providerName, quote.CodeHTTPStatus,
				fmt.Sprintf("Unexpected HTTP error (%d). Contact the developer if this persists.", apiErr.StatusCode)).
				WithStatusCode(apiErr.StatusCode).WithCause(err)
		}
	}

	if errors.Is(err, ErrInvalidPayload) {
		return quote.NewQuoteError(providerName, quote.CodeInvalidResponse,
			"Invalid response. The API returned unexpected data. Try again or contact the developer.").
			WithCause(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return quote.NewQuoteError(providerName, quote.CodeConnection,
			"Could not connect to the server. Please check your internet connection and try again.").
			WithCause(err)
	}

	return quote.NewQuoteError(providerName, quote.CodeUnexpected,
		fmt.Sprintf("Unexpected error: %v. Please contact the developer with this error message.", err)).
		WithCause(err)
}

var _ quote.Fetcher = (*Client)(nil)
