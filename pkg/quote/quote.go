// Package quote provides the batch shipping-cost quoting core: input
// normalization, the fetcher abstraction, and the batch coordinator.
package quote

import (
	"context"
)

// Fetcher defines the interface a shipping-cost provider must implement.
type Fetcher interface {
	// Name returns the provider identifier (e.g., "mercadolivre").
	Name() string

	// FetchShippingCost returns the shipping cost for a single normalized
	// ad ID shipped from the given origin ZIP code.
	FetchShippingCost(ctx context.Context, adID, zipCode string) (Money, error)
}
