package webserver

import (
	"log/slog"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/health"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/logger"
)

// Type aliases - public API
type (
	// Server binds routes to request pipelines and serves them.
	Server = internal.Server

	// Config holds the server settings read from the environment.
	Config = internal.Config

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// RouteBuilder configures a route with schema validation and enhanced handlers.
	RouteBuilder = internal.RouteBuilder

	// Pipeline is the stage sequence bound to one route.
	Pipeline = internal.Pipeline

	// Context is the per-request state shared by every stage.
	Context = internal.Context

	// ServerHandler is the view of the server reachable from a Context.
	ServerHandler = internal.ServerHandler

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature of route handlers that settle the request themselves.
	HandlerFunc = internal.HandlerFunc

	// RouteHandler is a value-returning route handler used with RouteBuilder.Handle.
	RouteHandler = internal.RouteHandler

	// Stage is one step of a request pipeline. Pre-hooks are stages.
	Stage = internal.Stage

	// ErrorStage writes the response for a failed request.
	ErrorStage = internal.ErrorStage

	// ContextEnhancer attaches capabilities to every request context.
	ContextEnhancer = internal.ContextEnhancer

	// ServerEnhancer adjusts the server at the end of New.
	ServerEnhancer = internal.ServerEnhancer

	// EnhancedHandler is a named step selectable per route.
	EnhancedHandler = internal.EnhancedHandler

	// Args is the tuple threaded through an enhanced handler chain.
	Args = internal.Args

	// Params holds path or query parameters.
	Params = internal.Params

	// TransformFunc rewrites a chain's result before it is sent.
	TransformFunc = internal.TransformFunc

	// Registry holds the enhanced handlers by name.
	Registry = internal.Registry

	// Container holds named process-wide dependencies.
	Container = internal.Container

	// RouteOptions are the effective options of one route.
	RouteOptions = internal.RouteOptions

	// RouteOption overrides one route option.
	RouteOption = internal.RouteOption

	// Option configures the server.
	Option = internal.Option

	// Hook runs at startup or shutdown.
	Hook = internal.Hook

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CORSConfig is the cross-origin policy.
	CORSConfig = internal.CORSConfig

	// CORSOption configures the cross-origin policy.
	CORSOption = internal.CORSOption

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource reads one candidate value from a request.
	ExtractorSource = internal.ExtractorSource

	// ResponseWriter tracks the status and size of a response.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// MethodAll registers a route for every method.
const MethodAll = internal.MethodAll

// Constructors

// New creates a server. Configuration errors panic.
//
// Example:
//
//	srv := webserver.New(
//	    webserver.WithConfig(cfg),
//	    webserver.WithLogger("api", middlewares.RequestIDExtractor()),
//	    webserver.WithPreHooks(middlewares.RequestID(), middlewares.RequestLogger()),
//	    webserver.WithRoutes(handlers.NewItems(repo)),
//	)
//
//	err := srv.Run(ctx)
func New(opts ...Option) *Server {
	return internal.New(opts...)
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	return internal.LoadConfig()
}

// DefaultConfig returns the configuration used when the environment is not consulted.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// NewRegistry builds an enhanced handler registry.
func NewRegistry(sets ...map[string]EnhancedHandler) (Registry, error) {
	return internal.NewRegistry(sets...)
}

// NewContainer returns an empty dependency container.
func NewContainer() *Container {
	return internal.NewContainer()
}

// NewExtractor tries sources in order.
//
// Example:
//
//	webserver.NewExtractor(
//	    webserver.FromBearerToken(),
//	    webserver.FromHeader("X-API-Key"),
//	)
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// Server options

// WithConfig replaces the configuration. Zero fields fall back to defaults.
func WithConfig(cfg Config) Option {
	return internal.WithConfig(cfg)
}

// WithBodyLimit caps JSON request bodies in bytes.
func WithBodyLimit(n int64) Option {
	return internal.WithBodyLimit(n)
}

// WithLogger builds the logger from the configuration with a component name
// and optional extractors.
//
// Example:
//
//	webserver.New(
//	    webserver.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithPreHooks appends server-wide stages run before each route's main stage.
func WithPreHooks(hooks ...Stage) Option {
	return internal.WithPreHooks(hooks...)
}

// WithEnhancedHandlers registers named steps. Duplicate names panic in New.
func WithEnhancedHandlers(set map[string]EnhancedHandler) Option {
	return internal.WithEnhancedHandlers(set)
}

// WithContextEnhancer runs fn on every request context before the pre-hooks.
func WithContextEnhancer(fn ContextEnhancer) Option {
	return internal.WithContextEnhancer(fn)
}

// WithServerEnhancer runs fn once at the end of New.
func WithServerEnhancer(fn ServerEnhancer) Option {
	return internal.WithServerEnhancer(fn)
}

// WithErrorStage replaces the default error stage.
func WithErrorStage(fn ErrorStage) Option {
	return internal.WithErrorStage(fn)
}

// WithCORS applies the CORS policy to every response and preflight.
func WithCORS(opts ...CORSOption) Option {
	return internal.WithCORS(opts...)
}

// WithCORSPolicy configures the policy used by preflight routes without
// enabling it globally.
func WithCORSPolicy(opts ...CORSOption) Option {
	return internal.WithCORSPolicy(opts...)
}

// WithRoutes registers handlers that declare routes.
func WithRoutes(h ...Handler) Option {
	return internal.WithRoutes(h...)
}

// WithDependency registers a value in the dependency container.
func WithDependency(name string, v any) Option {
	return internal.WithDependency(name, v)
}

// WithDefaultRouteOptions sets the options every route starts from.
func WithDefaultRouteOptions(opts ...RouteOption) Option {
	return internal.WithDefaultRouteOptions(opts...)
}

// WithStartupHook runs fn after the listener is bound.
func WithStartupHook(fn Hook) Option {
	return internal.WithStartupHook(fn)
}

// WithShutdownHook runs fn after in-flight requests finish.
func WithShutdownHook(fn Hook) Option {
	return internal.WithShutdownHook(fn)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live): always returns OK if the process is running.
// Readiness (/health/ready): runs all configured checks.
//
// Example:
//
//	webserver.WithHealthChecks(
//	    webserver.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// WithHealthTimeout bounds a readiness run.
func WithHealthTimeout(d time.Duration) HealthOption {
	return internal.WithHealthTimeout(d)
}

// Route options

// AllowAnonymous lets requests without credentials through Authenticate.
func AllowAnonymous() RouteOption { return internal.AllowAnonymous() }

// ForceExecution makes caching steps run the handlers.
func ForceExecution() RouteOption { return internal.ForceExecution() }

// DisableAutoFlush stops the chain from resolving the handler's result.
func DisableAutoFlush() RouteOption { return internal.DisableAutoFlush() }

// ResponseContentType sets the content type used by Resolve on the route.
func ResponseContentType(ct string) RouteOption { return internal.ResponseContentType(ct) }

// WithExtra sets an application-defined route option.
func WithExtra(key string, value any) RouteOption { return internal.WithExtra(key, value) }

// CORS options

func WithAllowOrigins(origins ...string) CORSOption { return internal.WithAllowOrigins(origins...) }

func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return internal.WithAllowOriginFunc(fn)
}

func WithAllowMethods(methods ...string) CORSOption { return internal.WithAllowMethods(methods...) }

func WithAllowHeaders(headers ...string) CORSOption { return internal.WithAllowHeaders(headers...) }

func WithExposeHeaders(headers ...string) CORSOption { return internal.WithExposeHeaders(headers...) }

func WithAllowCredentials(allow bool) CORSOption { return internal.WithAllowCredentials(allow) }

func WithMaxAge(d time.Duration) CORSOption { return internal.WithMaxAge(d) }

// Extractor sources

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query string value.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromParam reads a path parameter.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromBody reads a top-level field of a JSON object body.
func FromBody(field string) ExtractorSource { return internal.FromBody(field) }

// FromBearerToken reads an "Authorization: Bearer" token.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }
