package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/health"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/logger"
)

// Option configures the server.
type Option func(*Server)

// Hook runs at startup or shutdown.
type Hook = func(ctx context.Context) error

// WithConfig replaces the configuration. Zero fields fall back to defaults.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithBodyLimit caps JSON request bodies. Larger bodies are answered with 400.
func WithBodyLimit(n int64) Option {
	return func(s *Server) {
		s.config.BodyLimit = n
	}
}

type logSetup struct {
	component  string
	extractors []logger.ContextExtractor
}

func (l *logSetup) build(cfg Config) *slog.Logger {
	level, err := logger.ParseLevel(cfg.LogLevel)
	log := logger.NewWithSentry(cfg.Sentry, level, l.extractors...)
	component := l.component
	if component == "" {
		component = cfg.LogComponent
	}
	log = log.With("component", component)
	if err != nil {
		log.Warn("unknown log level, using info", slog.String("level", cfg.LogLevel))
	}
	return log
}

// WithLogger builds the server logger from the configuration: JSON to stdout at
// LOG_LEVEL, plus Sentry when SENTRY_DSN is set. An empty component uses LOG_COMPONENT.
//
// Example:
//
//	webserver.New(
//	    webserver.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(s *Server) {
		s.logSetup = &logSetup{component: component, extractors: extractors}
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
			s.logSetup = nil
		}
	}
}

// WithPreHooks appends server-wide stages run before every route's main stage,
// in registration order.
func WithPreHooks(hooks ...Stage) Option {
	return func(s *Server) {
		for _, h := range hooks {
			if h != nil {
				s.preHooks = append(s.preHooks, h)
			}
		}
	}
}

// WithEnhancedHandlers registers named handlers that routes select with
// RouteBuilder.Chain. A name registered twice makes New panic.
func WithEnhancedHandlers(set map[string]EnhancedHandler) Option {
	return func(s *Server) {
		s.handlerSets = append(s.handlerSets, set)
	}
}

// WithContextEnhancer runs fn on every request after the context is built and
// before the pre-hooks. An error goes to the error stage.
func WithContextEnhancer(fn ContextEnhancer) Option {
	return func(s *Server) {
		if fn != nil {
			s.contextEnhancers = append(s.contextEnhancers, fn)
		}
	}
}

// WithServerEnhancer runs fn during New, after the router is built and before WithRoutes handlers are bound.
func WithServerEnhancer(fn ServerEnhancer) Option {
	return func(s *Server) {
		if fn != nil {
			s.serverEnhancers = append(s.serverEnhancers, fn)
		}
	}
}

// WithErrorStage replaces the error stage shared by all routes.
func WithErrorStage(fn ErrorStage) Option {
	return func(s *Server) {
		if fn != nil {
			s.errorStage = fn
		}
	}
}

// WithCORS configures the CORS policy and applies it to every response,
// not only to routes with non-simple methods.
func WithCORS(opts ...CORSOption) Option {
	return func(s *Server) {
		s.globalCORS = true
		s.corsOptions = append(s.corsOptions, opts...)
	}
}

// WithCORSPolicy configures the policy used by preflight routes without
// enabling it globally.
func WithCORSPolicy(opts ...CORSOption) Option {
	return func(s *Server) {
		s.corsOptions = append(s.corsOptions, opts...)
	}
}

// WithRoutes registers handlers that declare routes. Each Routes method is called in New.
func WithRoutes(h ...Handler) Option {
	return func(s *Server) {
		s.handlers = append(s.handlers, h...)
	}
}

// WithDependency registers a value in the dependency container.
func WithDependency(name string, v any) Option {
	return func(s *Server) {
		_ = s.deps.Register(name, v)
	}
}

// WithDefaultRouteOptions sets options every route starts from.
func WithDefaultRouteOptions(opts ...RouteOption) Option {
	return func(s *Server) {
		s.routeDefaults = s.routeDefaults.apply(opts...)
	}
}

// WithStartupHook runs fn after the listener is bound. A failing hook stops the server.
func WithStartupHook(fn Hook) Option {
	return func(s *Server) {
		if fn != nil {
			s.startupHooks = append(s.startupHooks, fn)
		}
	}
}

// WithShutdownHook runs fn after the HTTP server stops accepting requests.
func WithShutdownHook(fn Hook) Option {
	return func(s *Server) {
		if fn != nil {
			s.shutdownHooks = append(s.shutdownHooks, fn)
		}
	}
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
	defaultHealthTimeout = 5 * time.Second
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named check run by the readiness endpoint.
//
//	webserver.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}

// WithHealthTimeout bounds a readiness run. Default: 5s.
func WithHealthTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHealthChecks serves liveness and readiness probes outside the pipeline.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(s *Server) {
		cfg := &healthConfig{
			checks:        make(health.Checks),
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			timeout:       defaultHealthTimeout,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		s.healthConfig = cfg
	}
}
