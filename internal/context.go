package internal

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/logger"
)

// ServerHandler is the view of the server that stages can reach through the context.
type ServerHandler interface {
	Config() Config
	Deps() *Container
	Logger() *slog.Logger
	SendResponse(w http.ResponseWriter, status int, contentType string, payload any) error
}

// Context is the per-request state shared by every stage of a pipeline.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Param returns a path parameter, or "" if absent.
	Param(name string) string

	// Params returns all path parameters.
	Params() Params

	// Query returns a query string value, or "" if absent.
	Query(name string) string

	// QueryParams returns the first value of every query string key.
	QueryParams() Params

	// Body returns the decoded JSON body, or nil when the request had none.
	Body() any

	// BodyParams returns the body when it is a JSON object, nil otherwise.
	BodyParams() map[string]any

	// SetBody replaces the decoded body seen by later stages.
	SetBody(v any)

	// Header returns a request header.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// RouteOptions returns a copy of the effective route options.
	RouteOptions() RouteOptions

	// RoutePattern returns the pattern the route was registered with.
	RoutePattern() string

	Server() ServerHandler
	Deps() *Container

	// Logger returns the request-scoped logger.
	Logger() *slog.Logger
	Log(level slog.Level, msg string, attrs ...any)
	LogTrace(msg string, attrs ...any)
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Resolve sends payload as the success response. Status defaults to 200.
	// It returns ErrAlreadySettled if the request was already resolved or rejected.
	Resolve(payload any, status ...int) error

	// Reject hands err to the error stage once the current stage returns.
	// It writes nothing and returns ErrAlreadySettled on a settled request.
	Reject(err error) error

	// ResolveWithError writes the error response for err: the status from its
	// StatusCode (500 by default) and its exposed payload, or an opaque
	// {"internalError":true} when it exposes nothing.
	ResolveWithError(err error) error

	// Settled reports whether Resolve, Reject or ResolveWithError has been called.
	Settled() bool
	Resolved() bool

	// Rejected returns the error passed to Reject, if any.
	Rejected() error

	// Written reports whether response headers have been sent.
	Written() bool

	// Set stores a value in the request context.
	Set(key, value any)

	// Get returns a value stored with Set, or any other request context value.
	Get(key any) any

	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Defer registers fn to run after the last stage, in reverse order.
	Defer(fn func())
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	server   *Server
	logger   *slog.Logger
	options  RouteOptions
	pattern  string
	params   Params
	query    Params
	body     any

	deferred []func()

	mu       sync.Mutex
	settled  bool
	resolved bool
	rejected error
}

func newContext(w http.ResponseWriter, r *http.Request, s *Server, pattern string, options RouteOptions) *requestContext {
	c := &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		server:   s,
		options:  options,
		pattern:  pattern,
		params:   urlParams(r),
	}
	c.logger = s.logger.With(
		slog.String("scope", "webserver-context"),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("route", pattern),
	)
	return c
}

func urlParams(r *http.Request) Params {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return Params{}
	}
	params := make(Params, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return params
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Param(name string) string {
	return c.params[name]
}

func (c *requestContext) Params() Params {
	out := make(Params, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryParams() Params {
	if c.query == nil {
		values := c.request.URL.Query()
		c.query = make(Params, len(values))
		for k := range values {
			c.query[k] = values.Get(k)
		}
	}
	return c.query
}

func (c *requestContext) Body() any {
	return c.body
}

func (c *requestContext) SetBody(v any) {
	c.body = v
}

func (c *requestContext) BodyParams() map[string]any {
	m, _ := c.body.(map[string]any)
	return m
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) RouteOptions() RouteOptions {
	return c.options.apply()
}

func (c *requestContext) RoutePattern() string {
	return c.pattern
}

func (c *requestContext) Server() ServerHandler {
	return c.server
}

func (c *requestContext) Deps() *Container {
	return c.server.Deps()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) Log(level slog.Level, msg string, attrs ...any) {
	c.logger.Log(c.request.Context(), level, msg, attrs...)
}

func (c *requestContext) LogTrace(msg string, attrs ...any) {
	c.Log(logger.LevelTrace, msg, attrs...)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Resolve(payload any, status ...int) error {
	code := http.StatusOK
	if len(status) > 0 && status[0] > 0 {
		code = status[0]
	}

	if !c.settle(true, nil) {
		c.LogError("resolve called on a settled request", slog.Int("status", code))
		return ErrAlreadySettled
	}

	ct := c.options.ResponseContentType
	if ct == "" {
		ct = c.server.config.DefaultOutputContentType
	}
	c.LogTrace("request resolved", slog.Int("status", code))
	return c.server.SendResponse(c.response, code, ct, payload)
}

func (c *requestContext) Reject(err error) error {
	if err == nil {
		err = InternalServerError("rejected without an error")
	}
	if !c.settle(false, err) {
		c.LogError("reject called on a settled request", slog.String("error", err.Error()))
		return ErrAlreadySettled
	}
	c.LogTrace("request rejected", slog.String("error", err.Error()))
	return nil
}

func (c *requestContext) ResolveWithError(err error) error {
	if c.response.Written() {
		c.LogError("error response after the response was sent", slog.String("error", errString(err)))
		return ErrAlreadySettled
	}
	c.settle(false, nil)

	var body any = InternalErrorBody{InternalError: true}
	if exposed := ExposeOf(err); exposed != nil {
		body = exposed
	}
	return c.server.SendResponse(c.response, StatusCodeOf(err), c.server.config.DefaultOutputContentType, body)
}

// settle marks the request settled. It reports false if it already was.
func (c *requestContext) settle(resolved bool, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled {
		return false
	}
	c.settled = true
	c.resolved = resolved
	c.rejected = err
	return true
}

func (c *requestContext) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

func (c *requestContext) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

func (c *requestContext) Rejected() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rejected
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Defer(fn func()) {
	if fn != nil {
		c.deferred = append(c.deferred, fn)
	}
}

func (c *requestContext) finish() {
	for i := len(c.deferred) - 1; i >= 0; i-- {
		c.deferred[i]()
	}
	c.deferred = nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
