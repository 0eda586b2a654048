package quote

import (
	"errors"
	"fmt"
)

// Error codes classifying fetch failures. Every failure surfaced to the
// caller carries exactly one of these.
const (
	// CodeConnection indicates a transport-level failure (DNS, refused
	// connection, timeout).
	CodeConnection = "CONNECTION"

	// CodeServerError indicates an HTTP 500 from the provider.
	CodeServerError = "SERVER_ERROR"

	// CodeNotFound indicates an HTTP 404: the listing does not exist.
	CodeNotFound = "NOT_FOUND"

	// CodeRateLimited indicates an HTTP 429 from the provider.
	CodeRateLimited = "RATE_LIMITED"

	// CodeHTTPStatus indicates any other non-2xx HTTP status.
	CodeHTTPStatus = "HTTP_STATUS"

	// CodeInvalidResponse indicates a response body that could not be parsed.
	CodeInvalidResponse = "INVALID_RESPONSE"

	// CodeNoOptions indicates the listing has no usable shipping options.
	CodeNoOptions = "NO_OPTIONS"

	// CodeUnexpected is the catch-all for anything else. It must never
	// escalate beyond the entry it belongs to.
	CodeUnexpected = "UNEXPECTED"
)

// QuoteError represents a fetch failure from a shipping-cost provider.
type QuoteError struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Provider, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QuoteError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for QuoteError. Two quote errors match when they
// carry the same code, regardless of provider or message.
func (e *QuoteError) Is(target error) bool {
	t, ok := target.(*QuoteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(provider, code, message string) *QuoteError {
	return &QuoteError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// WithCause adds a cause to the error.
func (e *QuoteError) WithCause(err error) *QuoteError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *QuoteError) WithStatusCode(code int) *QuoteError {
	e.StatusCode = code
	return e
}

// Reason returns the human-readable failure message for an error. For a
// QuoteError this is the provider's classified message; anything else falls
// back to the raw error text.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var qerr *QuoteError
	if errors.As(err, &qerr) {
		return qerr.Message
	}
	return err.Error()
}

// Code returns the classification code for an error, or CodeUnexpected for
// errors that are not a QuoteError.
func Code(err error) string {
	var qerr *QuoteError
	if errors.As(err, &qerr) {
		return qerr.Code
	}
	return CodeUnexpected
}
