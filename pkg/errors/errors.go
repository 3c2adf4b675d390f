package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport-level errors (connection failure, non-2xx status)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout represents request or task deadline errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeNoProducts represents a search page with no extractable product
	ErrorTypeNoProducts ErrorType = "no_products"
	// ErrorTypeRenderer represents a missing or broken page renderer
	ErrorTypeRenderer ErrorType = "renderer"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
)

// ScrapeError represents a store-scraping error with a classified type
type ScrapeError struct {
	Type    ErrorType
	Store   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		if e.Store != "" {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Store, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	if e.Store != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Store, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// New creates a new ScrapeError
func New(errType ErrorType, store, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Store:   store,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(store, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, store, message, err)
}

// NewTimeout creates a new timeout error
func NewTimeout(store, message string, err error) *ScrapeError {
	return New(ErrorTypeTimeout, store, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(store, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, store, message, err)
}

// NewNoProducts creates an error for a page without extractable products
func NewNoProducts(store string) *ScrapeError {
	return New(ErrorTypeNoProducts, store, "no products found", nil)
}

// NewRenderer creates an error for a missing or broken page renderer
func NewRenderer(store, message string, err error) *ScrapeError {
	return New(ErrorTypeRenderer, store, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(store string, retryAfter string) *ScrapeError {
	message := "rate limited"
	if retryAfter != "" {
		message = fmt.Sprintf("rate limited; retry after %s", retryAfter)
	}
	return New(ErrorTypeRateLimit, store, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(message string) *ScrapeError {
	return New(ErrorTypeValidation, "", message, nil)
}

// TypeOf returns the classified type of err, or the empty string when err
// carries no ScrapeError in its chain.
func TypeOf(err error) ErrorType {
	var serr *ScrapeError
	if stderrors.As(err, &serr) {
		return serr.Type
	}
	return ""
}

// IsType reports whether err has the given classified type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
