package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/health"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/logger"
)

// HTTP server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
)

// Server binds routes to request pipelines and serves them.
// All configuration happens in New and in server enhancers; once Start is
// called the router, the registry and the dependency container are frozen.
type Server struct {
	config   Config
	logger   *slog.Logger
	logSetup *logSetup
	deps     *Container
	router   chi.Router
	registry Registry

	handlerSets      []map[string]EnhancedHandler
	preHooks         []Stage
	contextEnhancers []ContextEnhancer
	serverEnhancers  []ServerEnhancer
	errorStage       ErrorStage
	routeDefaults    RouteOptions
	handlers         []Handler
	healthConfig     *healthConfig

	corsOptions []CORSOption
	cors        *corsPolicy
	globalCORS  bool

	startupHooks  []Hook
	shutdownHooks []Hook

	// preflights holds the full patterns that already have an OPTIONS route.
	preflights map[string]bool
	bootErrs   []error

	started    atomic.Bool
	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error
	stopped    bool
}

// New creates a server. Misconfiguration (duplicate enhanced handlers, a failing
// server enhancer, a route chaining an unknown handler) panics.
//
// Example:
//
//	srv := webserver.New(
//	    webserver.WithConfig(cfg),
//	    webserver.WithLogger("api", middlewares.RequestIDExtractor()),
//	    webserver.WithPreHooks(middlewares.RequestID(), middlewares.RequestLogger()),
//	    webserver.WithEnhancedHandlers(map[string]webserver.EnhancedHandler{
//	        "requireID": steps.RequireParams("id"),
//	    }),
//	    webserver.WithRoutes(handlers.NewItems(repo)),
//	)
func New(opts ...Option) *Server {
	s := &Server{
		config:     DefaultConfig(),
		logger:     logger.NewNope(),
		deps:       NewContainer(),
		errorStage: DefaultErrorStage,
		preflights: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.config = s.config.withDefaults()
	if s.logSetup != nil {
		s.logger = s.logSetup.build(s.config)
	}

	registry, err := NewRegistry(s.handlerSets...)
	if err != nil {
		s.bootErrs = append(s.bootErrs, err)
	}
	s.registry = registry

	s.cors = newCORSPolicy(s.corsConfig())
	s.router = chi.NewRouter()
	if s.globalCORS {
		s.router.Use(s.cors.middleware)
	}

	for _, enhance := range s.serverEnhancers {
		if err := enhance(s); err != nil {
			s.bootErrs = append(s.bootErrs, fmt.Errorf("webserver: server enhancer: %w", err))
		}
	}

	// Enhancers may register named handlers that WithRoutes chains refer to.
	s.setupRoutes()

	if len(s.bootErrs) > 0 {
		panic(errors.Join(s.bootErrs...))
	}
	return s
}

// corsConfig merges config-driven origins with WithCORS options.
func (s *Server) corsConfig() CORSConfig {
	cfg := DefaultCORSConfig()
	if len(s.config.CORSAllowOrigins) > 0 {
		cfg.AllowOrigins = s.config.CORSAllowOrigins
	}
	cfg.AllowCredentials = s.config.CORSAllowCredentials
	for _, opt := range s.corsOptions {
		opt(&cfg)
	}
	return cfg
}

func (s *Server) setupRoutes() {
	s.router.NotFound(newPipeline(s, "", func(Context) error {
		return NotFound("route not found")
	}, s.routeDefaults).ServeHTTP)

	s.router.MethodNotAllowed(newPipeline(s, "", func(Context) error {
		return NewHTTPError(http.StatusMethodNotAllowed, "method not allowed",
			WithExpose(ErrorBody{Code: "MethodNotAllowedError", Message: "Method Not Allowed Error"}))
	}, s.routeDefaults).ServeHTTP)

	if hc := s.healthConfig; hc != nil {
		s.router.Get(hc.livenessPath, health.LivenessHandler())
		s.router.Get(hc.readinessPath, health.ReadinessHandler(hc.checks,
			health.WithLogger(s.logger),
			health.WithTimeout(hc.timeout),
		))
	}

	r := s.Router()
	for _, h := range s.handlers {
		h.Routes(r)
	}
}

// Router returns the route binder. Binding after Start panics with ErrRouterFrozen.
func (s *Server) Router() Router {
	return &routerAdapter{router: s.router, server: s}
}

// Handler returns the root http.Handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Config() Config {
	return s.config
}

func (s *Server) Deps() *Container {
	return s.deps
}

func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Registry returns the enhanced handler registry.
func (s *Server) Registry() Registry {
	return s.registry
}

// SendResponse writes a JSON response. Stages use it through Context.Resolve.
func (s *Server) SendResponse(w http.ResponseWriter, status int, contentType string, payload any) error {
	return SendResponse(w, status, contentType, payload)
}

// RegisterEnhancedHandlers adds named handlers before the server starts.
// Routes bound earlier are unaffected.
func (s *Server) RegisterEnhancedHandlers(set map[string]EnhancedHandler) error {
	if s.started.Load() {
		return ErrServerStarted
	}
	next, err := s.registry.With(set)
	if err != nil {
		return err
	}
	s.registry = next
	return nil
}

// HTTPServer returns the underlying *http.Server, or nil before Start.
func (s *Server) HTTPServer() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpServer
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) mustBeOpen() {
	if s.started.Load() {
		panic(ErrRouterFrozen)
	}
}
