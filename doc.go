// Package webserver is a JSON HTTP server built around request pipelines.
//
// Each route runs a fixed sequence of stages: the context stage (body
// decoding and context enhancers), the server's pre-hooks, the route's main
// stage and a not-found fallback. The first stage that settles the request
// with Resolve or Reject ends the pipeline; failures go to a single error
// stage.
//
// # Quick start
//
//	type Items struct{}
//
//	func (h *Items) Routes(r webserver.Router) {
//	    r.GET("/items/:id", func(c webserver.Context) error {
//	        return c.Resolve(map[string]int{"id": webserver.Param[int](c, "id")})
//	    })
//	}
//
//	func main() {
//	    cfg, err := webserver.LoadConfig()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    srv := webserver.New(
//	        webserver.WithConfig(cfg),
//	        webserver.WithLogger("items"),
//	        webserver.WithRoutes(&Items{}),
//	    )
//	    if err := srv.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Enhanced handlers
//
// Named steps registered with WithEnhancedHandlers can be chained per route.
// Each step receives the (query, body, ctx, transform) tuple of the previous
// one, and the last route handler's result is resolved automatically:
//
//	r.Handle(http.MethodGet, "/items/:id").
//	    Chain("needsID", "cache").
//	    Handle(func(q webserver.Params, _ any, c webserver.Context) (any, error) {
//	        return repo.Find(c, q.Get("id"))
//	    })
//
// # Errors
//
// Errors carry a status code and an exposed payload. BadRequest, Unauthorized,
// Forbidden, NotFound, UnprocessableEntity and InternalServerError expose
// {"code": ..., "message": ...}. Errors exposing nothing, including recovered
// panics, are answered with {"internalError": true}.
//
// # CORS
//
// Routes with methods other than GET, HEAD and POST get an OPTIONS route that
// answers preflight requests. WithCORS applies the policy to every response.
package webserver
