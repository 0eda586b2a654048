package quote

// Money represents a monetary amount.
type Money struct {
	Amount   float64
	Currency string
}

// Entry is the outcome for a single ad ID within a batch. Entries come in
// three shapes: the raw token failed normalization (AdID empty), the fetch
// failed (Err set), or the fetch succeeded (Cost set).
type Entry struct {
	// Raw is the token exactly as the user supplied it, after trimming.
	Raw string

	// AdID is the normalized identifier. Empty when normalization failed.
	AdID string

	// Cost holds the shipping cost on success.
	Cost *Money

	// Err holds the fetch failure, if any.
	Err error
}

// Invalid reports whether the raw token failed normalization.
func (e Entry) Invalid() bool {
	return e.AdID == ""
}

// OK reports whether the fetch succeeded.
func (e Entry) OK() bool {
	return e.Cost != nil
}
