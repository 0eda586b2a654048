package quote

import (
	"context"
	"regexp"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tokenSeparator = regexp.MustCompile(`[,\n]`)

// SplitAdIDs splits a raw blob of ad IDs on commas and newlines, trims each
// token, drops empties, and deduplicates preserving first-occurrence order.
func SplitAdIDs(blob string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range tokenSeparator.Split(blob, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Coordinator runs batches of shipping-cost fetches against a Fetcher.
// It holds no state between batches.
type Coordinator struct {
	fetcher Fetcher
	logger  *otelzap.Logger
}

// NewCoordinator creates a new batch coordinator.
func NewCoordinator(fetcher Fetcher, logger *otelzap.Logger) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// ProcessBatch resolves a raw blob of ad IDs against the provider for the
// given normalized origin ZIP code. Tokens are deduplicated preserving
// first-occurrence order; every valid ID is fetched concurrently; the
// returned entries follow the first-occurrence order of the input, with
// invalid tokens marked in place. Nothing is returned until every fetch has
// settled, and one fetch's failure never aborts the others. Callers must
// validate the ZIP code with NormalizeZipCode before calling.
func (c *Coordinator) ProcessBatch(ctx context.Context, rawIDs, zipCode string) []Entry {
	tokens := SplitAdIDs(rawIDs)
	if len(tokens) == 0 {
		return nil
	}

	entries := make([]Entry, len(tokens))

	g, ctx := errgroup.WithContext(ctx)
	for i, raw := range tokens {
		adID, ok := NormalizeAdID(raw)
		entries[i] = Entry{Raw: raw, AdID: adID}
		if !ok {
			c.logger.Warn("Skipping invalid ad ID", zap.String("raw", raw))
			continue
		}

		i, adID := i, adID // capture loop variables
		g.Go(func() error {
			cost, err := c.fetcher.FetchShippingCost(ctx, adID, zipCode)
			if err != nil {
				// Each goroutine owns its slot; failures stay local.
				entries[i].Err = err
				return nil
			}
			entries[i].Cost = &cost
			return nil
		})
	}
	g.Wait()

	var failed, invalid int
	for _, e := range entries {
		switch {
		case e.Invalid():
			invalid++
		case !e.OK():
			failed++
		}
	}
	c.logger.Info("Batch complete",
		zap.String("provider", c.fetcher.Name()),
		zap.Int("total", len(entries)),
		zap.Int("failed", failed),
		zap.Int("invalid", invalid),
	)

	return entries
}
