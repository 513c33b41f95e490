package errorutil

import (
	"errors"
	"fmt"
)

// Error carries the retry and rate-limit classification next to the message.
type Error struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Retryable   bool   `json:"retryable"`
	RateLimited bool   `json:"rate_limited"`
	DevDetails  string `json:"dev_details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Retriable builds a retryable error (network failures, temporary outages).
func Retriable(message string) *Error {
	return &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// NonRetriable builds a non-retryable error (bad input, business rule violations).
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// RateLimit builds the marketplace daily-quota error. It is neither retried
// within the run nor treated as an ordinary failure; callers stop issuing
// marketplace calls of that kind for the affected order.
func RateLimit(message string) *Error {
	return &Error{
		Code:        429,
		Message:     message,
		Retryable:   false,
		RateLimited: true,
	}
}

// Wrap converts an arbitrary error into *Error, keeping an existing
// classification intact.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// IsRateLimited reports whether err is the marketplace rate-limit condition.
func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.RateLimited
}

// IsRetryable reports whether err is worth retrying on a later run.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
