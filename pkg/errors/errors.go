package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	// ResetAt is the platform-declared time after which a rate limited
	// call may be retried. Only set for ErrorTypeRateLimit.
	ResetAt time.Time
}

func (e *Error) Error() string {
	if e.Type == ErrorTypeRateLimit && !e.ResetAt.IsZero() {
		return fmt.Sprintf("%s error (code %d): %s (resets at %s)", e.Type, e.Code, e.Message, e.ResetAt.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates an Error of the given type
func New(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Code: code, Message: message}
}

// NewRateLimit creates a rate limit error carrying the reset time
func NewRateLimit(resetAt time.Time, message string) *Error {
	if message == "" {
		message = "rate limit exceeded"
	}
	return &Error{
		Type:    ErrorTypeRateLimit,
		Message: message,
		Code:    http.StatusTooManyRequests,
		ResetAt: resetAt,
	}
}

// FromStatus maps an HTTP status code to a typed error. It returns nil for
// non-error status codes. Rate limit errors built here have no reset time;
// callers that can read one should use NewRateLimit.
func FromStatus(statusCode int, message string) *Error {
	if statusCode < 400 {
		return nil
	}

	var errorType ErrorType
	switch {
	case statusCode == http.StatusTooManyRequests:
		errorType = ErrorTypeRateLimit
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		errorType = ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		errorType = ErrorTypeNotFound
	case statusCode >= 500:
		errorType = ErrorTypeServerError
	default:
		errorType = ErrorTypeUnknown
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &Error{Type: errorType, Code: statusCode, Message: message}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err does not
// wrap an *Error.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// IsRateLimit reports whether err is (or wraps) a rate limit error
func IsRateLimit(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeRateLimit
}

// IsNotFound reports whether err is (or wraps) a not found error
func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNotFound
}

// RateLimitReset extracts the reset time from a rate limit error. The
// boolean is false when err is not a rate limit error.
func RateLimitReset(err error) (time.Time, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeRateLimit {
		return time.Time{}, false
	}
	return apiErr.ResetAt, true
}

// IsRetryable checks if an error type should be retried. Only rate limits
// are recovered locally; everything else aborts the run.
func IsRetryable(errorType ErrorType) bool {
	return errorType == ErrorTypeRateLimit
}
