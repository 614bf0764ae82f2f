package internal

// Handler declares routes on a router.
//
// Example:
//
//	type ItemsHandler struct {
//	    repo *repository.Items
//	}
//
//	func (h *ItemsHandler) Routes(r webserver.Router) {
//	    r.GET("/items/:id", h.show)
//	    r.PUT("/items/:id", h.update)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the business handler of a route.
// It settles the request through c.Resolve or c.Reject, or returns an error.
// Returning a non-nil error routes it to the error stage.
type HandlerFunc func(c Context) error

// Stage is one step of a request pipeline.
// A stage that returns nil without settling the context hands control to the next stage.
type Stage func(c Context) error

// ErrorStage produces the response for an error raised anywhere in the pipeline.
// There is exactly one error stage per server.
type ErrorStage func(c Context, err error)

// ContextEnhancer is invoked for every request right after the context is constructed.
// It may attach capabilities through c.Set (authentication state, tenant, etc).
// A returned error is routed to the error stage.
type ContextEnhancer func(c Context) error

// ServerEnhancer is invoked once by New with the constructed server, before WithRoutes handlers are bound.
type ServerEnhancer func(s *Server) error

// Params holds path or query parameters by name.
type Params map[string]string

// Get returns the named value or an empty string.
func (p Params) Get(name string) string {
	return p[name]
}

// TransformFunc rewrites the result of the route handlers before it is flushed.
type TransformFunc func(result any) (any, error)

// Args is the tuple threaded through an enhanced handler chain.
type Args struct {
	Query     Params
	Body      any
	Ctx       Context
	Transform TransformFunc
}

// EnhancedHandler is a named, server-wide step selectable per route.
// Returning nil args keeps the previous tuple.
type EnhancedHandler func(in Args) (*Args, error)

// RouteHandler is a value-returning route handler.
// The result of the last route handler is resolved automatically unless
// the route disables auto flush.
type RouteHandler func(query Params, body any, c Context) (any, error)
