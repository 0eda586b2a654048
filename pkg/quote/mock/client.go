// Package mock provides a mock quote fetcher for testing.
package mock

import (
	"context"
	"time"

	"github.com/fretelab/mlfrete/pkg/quote"
)

// Client is a mock fetcher for testing.
type Client struct {
	name string

	// Delay is applied before every fetch when set.
	Delay time.Duration

	// Cost is the amount returned on success.
	Cost float64

	// Err, when set, is returned for every fetch.
	Err error

	// OnFetch overrides the fetch behavior entirely when set.
	OnFetch func(ctx context.Context, adID, zipCode string) (quote.Money, error)
}

// New creates a new mock fetcher.
func New(name string) *Client {
	if name == "" {
		name = "mock"
	}
	return &Client{name: name, Cost: 25.90}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// FetchShippingCost returns the configured mock outcome.
func (c *Client) FetchShippingCost(ctx context.Context, adID, zipCode string) (quote.Money, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return quote.Money{}, ctx.Err()
		}
	}

	if c.OnFetch != nil {
		return c.OnFetch(ctx, adID, zipCode)
	}

	if c.Err != nil {
		return quote.Money{}, c.Err
	}

	return quote.Money{Amount: c.Cost, Currency: "BRL"}, nil
}

var _ quote.Fetcher = (*Client)(nil)
