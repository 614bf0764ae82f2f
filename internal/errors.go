package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors.
var (
	// ErrAlreadySettled is returned by Resolve and Reject once the request has been settled.
	ErrAlreadySettled = errors.New("webserver: request already settled")

	// ErrRouterFrozen is the panic value for route registration after the server started.
	ErrRouterFrozen = errors.New("webserver: router is frozen after start")

	// ErrServerStarted is returned by Start when the server is already listening.
	ErrServerStarted = errors.New("webserver: server already started")

	// ErrServerNotStarted is returned by Shutdown before Start.
	ErrServerNotStarted = errors.New("webserver: server not started")
)

// DefaultErrorStatus is used for errors without a status code.
const DefaultErrorStatus = http.StatusInternalServerError

// ErrorBody is the default exposed payload of the error taxonomy.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorBody is exposed for schema validation failures.
type ValidationErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

// InternalErrorBody is sent when an error exposes nothing.
type InternalErrorBody struct {
	InternalError bool `json:"internalError"`
}

// HTTPError is an error carrying an HTTP status code and an optional payload
// that may be shown to the client.
type HTTPError struct {
	// Err is the underlying error (for logging, never sent to clients).
	Err error

	// Expose is the payload sent to the client. Nil means nothing is exposed.
	Expose any

	// Message is the internal description of the error.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// Exposed returns the client-visible payload.
func (e *HTTPError) Exposed() any {
	return e.Expose
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithExpose replaces the exposed payload.
func WithExpose(v any) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Expose = v
	}
}

// WithCause sets the underlying error.
func WithCause(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates an HTTPError that exposes nothing.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newKindError(code int, kind, text, message string, opts []HTTPErrorOption) *HTTPError {
	e := NewHTTPError(code, message)
	e.Expose = ErrorBody{Code: kind, Message: text}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error taxonomy. Each kind exposes {code, message} unless overridden with WithExpose.

func BadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusBadRequest, "BadRequestError", "Bad Request Error", message, opts)
}

func Unauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusUnauthorized, "UnauthorizedError", "Unauthorized Error", message, opts)
}

func Forbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusForbidden, "ForbiddenError", "Forbidden Error", message, opts)
}

func NotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusNotFound, "NotFoundError", "Not Found Error", message, opts)
}

func UnprocessableEntity(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusUnprocessableEntity, "UnprocessableEntityError", "Unprocessable Entity Error", message, opts)
}

func InternalServerError(message string, opts ...HTTPErrorOption) *HTTPError {
	return newKindError(http.StatusInternalServerError, "InternalServerError", "Internal Server Error", message, opts)
}

// ValidationFailed wraps a validation error into a 422 exposing the field errors.
func ValidationFailed(fieldErrors any, cause error) *HTTPError {
	return UnprocessableEntity("request validation failed",
		WithCause(cause),
		WithExpose(ValidationErrorBody{
			Code:    "UnprocessableEntityError",
			Message: "Unprocessable Entity Error",
			Errors:  fieldErrors,
		}),
	)
}

// PanicError represents a panic recovered from a pipeline stage.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Helper functions for error inspection.

type statusCoder interface {
	StatusCode() int
}

type exposer interface {
	Exposed() any
}

// StatusCodeOf returns the status code carried by err, or 500.
func StatusCodeOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		return sc.StatusCode()
	}
	return DefaultErrorStatus
}

// ExposeOf returns the client-visible payload carried by err, or nil.
func ExposeOf(err error) any {
	var ex exposer
	if errors.As(err, &ex) {
		return ex.Exposed()
	}
	return nil
}

func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the HTTPError from an error if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
