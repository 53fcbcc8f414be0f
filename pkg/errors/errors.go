package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeRobots represents robots.txt disallow errors
	ErrorTypeRobots ErrorType = "robots"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeNotifier represents notifier-related errors
	ErrorTypeNotifier ErrorType = "notifier"
	// ErrorTypeStore represents record store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents missing record errors
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents an application-specific error
type ScrapeError struct {
	Type     ErrorType
	Retailer string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		if e.Retailer != "" {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Retailer, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	if e.Retailer != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Retailer, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, retailer, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:     errType,
		Retailer: retailer,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(retailer, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, retailer, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(retailer, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, retailer, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(retailer string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, retailer, message, nil)
}

// NewRobots creates a new robots.txt disallow error
func NewRobots(retailer, url string) *ScrapeError {
	return New(ErrorTypeRobots, retailer, fmt.Sprintf("disallowed by robots.txt: %s", url), nil)
}

// NewCache creates a new cache error
func NewCache(retailer, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, retailer, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, "", message, err)
}

// NewNotifier creates a new notifier error
func NewNotifier(message string, err error) *ScrapeError {
	return New(ErrorTypeNotifier, "", message, err)
}

// NewStore creates a new record store error
func NewStore(message string, err error) *ScrapeError {
	return New(ErrorTypeStore, "", message, err)
}

// NewValidation creates a new validation error
func NewValidation(message string) *ScrapeError {
	return New(ErrorTypeValidation, "", message, nil)
}

// NewNotFound creates a new not-found error
func NewNotFound(message string) *ScrapeError {
	return New(ErrorTypeNotFound, "", message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	return IsType(err, ErrorTypeRateLimit)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}
