package webserver

import "github.com/polynode-io/polynode-boilerplate-webserver/internal"

type (
	// HTTPError carries a status code and the payload exposed to clients.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// PanicError is a panic recovered from a stage.
	PanicError = internal.PanicError

	// ErrorBody is the exposed {code, message} payload.
	ErrorBody = internal.ErrorBody

	// ValidationErrorBody is exposed for schema validation failures.
	ValidationErrorBody = internal.ValidationErrorBody
)

// Sentinel errors.
var (
	ErrAlreadySettled     = internal.ErrAlreadySettled
	ErrRouterFrozen       = internal.ErrRouterFrozen
	ErrServerStarted      = internal.ErrServerStarted
	ErrServerNotStarted   = internal.ErrServerNotStarted
	ErrDuplicateHandler   = internal.ErrDuplicateHandler
	ErrUnknownHandler     = internal.ErrUnknownHandler
	ErrDependencyNotFound = internal.ErrDependencyNotFound
	ErrDependencyType     = internal.ErrDependencyType
	ErrContainerFrozen    = internal.ErrContainerFrozen
)

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func WithExpose(v any) HTTPErrorOption { return internal.WithExpose(v) }

func WithCause(err error) HTTPErrorOption { return internal.WithCause(err) }

// BadRequest answers 400 with {"code":"BadRequestError","message":"Bad Request Error"}.
func BadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.BadRequest(message, opts...)
}

func Unauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.Unauthorized(message, opts...)
}

func Forbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.Forbidden(message, opts...)
}

func NotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NotFound(message, opts...)
}

func UnprocessableEntity(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.UnprocessableEntity(message, opts...)
}

func InternalServerError(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.InternalServerError(message, opts...)
}

// ValidationFailed answers 422 exposing the field errors.
func ValidationFailed(fieldErrors any, cause error) *HTTPError {
	return internal.ValidationFailed(fieldErrors, cause)
}

// DefaultErrorStage logs err and writes its exposed payload.
func DefaultErrorStage(c Context, err error) {
	internal.DefaultErrorStage(c, err)
}

func StatusCodeOf(err error) int { return internal.StatusCodeOf(err) }

func ExposeOf(err error) any { return internal.ExposeOf(err) }

func IsHTTPError(err error) bool { return internal.IsHTTPError(err) }

func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

func IsPanicError(err error) bool { return internal.IsPanicError(err) }
