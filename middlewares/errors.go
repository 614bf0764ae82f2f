package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

// TimeoutError represents a request timeout.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
	Code     int           // Status answered to the client
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// StatusCode returns the configured status, 503 by default.
func (e *TimeoutError) StatusCode() int {
	if e.Code == 0 {
		return http.StatusServiceUnavailable
	}
	return e.Code
}

// Exposed returns the payload sent to the client.
func (e *TimeoutError) Exposed() any {
	return internal.ErrorBody{Code: "TimeoutError", Message: "Request Timeout Error"}
}

// IsTimeoutError returns true if the error is a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
