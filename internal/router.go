package internal

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

// MethodAll registers a route for every method.
const MethodAll = "ALL"

// Router is the interface handlers use to declare routes.
// Paths accept both chi patterns ("/items/{id}") and ":id" segments.
// Methods outside GET, HEAD and POST also get an OPTIONS preflight route.
type Router interface {
	GET(path string, h HandlerFunc, opts ...RouteOption)
	POST(path string, h HandlerFunc, opts ...RouteOption)
	PUT(path string, h HandlerFunc, opts ...RouteOption)
	PATCH(path string, h HandlerFunc, opts ...RouteOption)
	DELETE(path string, h HandlerFunc, opts ...RouteOption)
	HEAD(path string, h HandlerFunc, opts ...RouteOption)
	OPTIONS(path string, h HandlerFunc, opts ...RouteOption)

	// ALL registers h for every method on path.
	ALL(path string, h HandlerFunc, opts ...RouteOption)

	// Handle starts a route that chains enhanced handlers, validates the body
	// or returns values instead of resolving explicitly.
	Handle(method, path string) *RouteBuilder

	// Group creates an inline route group.
	Group(fn func(r Router))

	// Route creates a route group under a path prefix.
	Route(prefix string, fn func(r Router))

	// Mount attaches a plain http.Handler. Mounted handlers bypass the pipeline.
	Mount(pattern string, h http.Handler)
}

type routerAdapter struct {
	router chi.Router
	server *Server
	prefix string
}

func (r *routerAdapter) GET(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodGet, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodPost, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodPut, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodPatch, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodDelete, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodHead, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(http.MethodOptions, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) ALL(path string, h HandlerFunc, opts ...RouteOption) {
	r.Handle(MethodAll, path).Options(opts...).HandleFunc(h)
}

func (r *routerAdapter) Handle(method, path string) *RouteBuilder {
	return &RouteBuilder{router: r, method: strings.ToUpper(method), path: path}
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.server.mustBeOpen()
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, server: r.server, prefix: r.prefix})
	})
}

func (r *routerAdapter) Route(prefix string, fn func(Router)) {
	r.server.mustBeOpen()
	pattern := chiPattern(prefix)
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, server: r.server, prefix: r.prefix + pattern})
	})
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.server.mustBeOpen()
	r.router.Mount(chiPattern(pattern), h)
}

// bind registers the pipeline of one route, plus its preflight route when needed.
func (r *routerAdapter) bind(method, path string, main Stage, opts []RouteOption) *Pipeline {
	s := r.server
	s.mustBeOpen()

	pattern := chiPattern(path)
	full := r.prefix + pattern
	p := newPipeline(s, full, main, s.routeDefaults.apply(opts...))

	var h http.Handler = p
	if !isCORSSimple(method) && !s.globalCORS {
		h = s.cors.handler(h)
	}

	switch method {
	case MethodAll:
		r.router.Handle(pattern, h)
	default:
		r.router.Method(method, pattern, h)
	}

	switch {
	case method == http.MethodOptions:
		s.preflights[full] = true
	case method == MethodAll:
		// ALL also claims OPTIONS; put the preflight responder back.
		r.router.Method(http.MethodOptions, pattern, s.cors.preflight())
		s.preflights[full] = true
	case !isCORSSimple(method) && !s.preflights[full]:
		r.router.Method(http.MethodOptions, pattern, s.cors.preflight())
		s.preflights[full] = true
	}

	s.logger.Debug("route bound",
		"method", method,
		"route", full,
		"stages", strings.Join(p.Names(), ","),
	)
	return p
}

// chiPattern turns ":name" segments into chi's "{name}".
func chiPattern(path string) string {
	if !strings.Contains(path, ":") {
		return path
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if len(seg) > 1 && seg[0] == ':' {
			segs[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}

// RouteBuilder configures one route. Handle or HandleFunc binds it.
type RouteBuilder struct {
	router *routerAdapter
	method string
	path   string
	chain  []string
	opts   []RouteOption
	schema *validator.Schema
}

// Chain selects enhanced handlers by name, run in the given order.
func (b *RouteBuilder) Chain(names ...string) *RouteBuilder {
	b.chain = append(b.chain, names...)
	return b
}

// Options overrides server default route options for this route.
func (b *RouteBuilder) Options(opts ...RouteOption) *RouteBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Schema validates the request body before the chain runs.
// A failing body is answered with 422 and the list of field errors.
func (b *RouteBuilder) Schema(s *validator.Schema) *RouteBuilder {
	b.schema = s
	return b
}

// Handle binds the route with value-returning handlers. They run after the
// chain; the last result is resolved unless DisableAutoFlush is set.
func (b *RouteBuilder) Handle(handlers ...RouteHandler) *Pipeline {
	opts := b.router.server.routeDefaults.apply(b.opts...)
	steps := b.router.server.registry.resolve(b.chain)
	return b.bind(chainStage(steps, handlers, !opts.DisableAutoFlush))
}

// HandleFunc binds the route with a handler that settles the request itself.
func (b *RouteBuilder) HandleFunc(h HandlerFunc) *Pipeline {
	if len(b.chain) == 0 {
		return b.bind(Stage(h))
	}
	steps := b.router.server.registry.resolve(b.chain)
	return b.bind(chainStage(steps, []RouteHandler{func(_ Params, _ any, c Context) (any, error) {
		return nil, h(c)
	}}, false))
}

func (b *RouteBuilder) bind(main Stage) *Pipeline {
	if b.schema != nil {
		main = schemaGate(b.schema, main)
	}
	return b.router.bind(b.method, b.path, main, b.opts)
}

// schemaGate validates the body and only then runs next.
func schemaGate(s *validator.Schema, next Stage) Stage {
	return func(c Context) error {
		if err := s.Validate(c.Body()); err != nil {
			if errs := validator.ExtractValidationErrors(err); errs != nil {
				return ValidationFailed(errs, err)
			}
			return err
		}
		return next(c)
	}
}
