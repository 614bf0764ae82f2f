// Package internal implements the request pipeline behind the public
// webserver package.
//
// Every route is bound to a Pipeline, a fixed sequence of stages:
//
//	context      decode the JSON body, run context enhancers
//	pre-hook[i]  server-wide stages (request id, logging, auth, timeouts)
//	main         the route's handler, or its enhanced handler chain
//	not-found    answers 404 when nothing settled the request
//
// A stage settles the request with Context.Resolve or Context.Reject. The
// first settling stage ends the pipeline. Returned errors, rejections and
// recovered panics go to the single error stage, which by default writes
// the error's exposed payload or {"internalError":true}.
//
// Routes are declared through Router. Methods other than GET, HEAD and POST
// also get an OPTIONS route answering CORS preflight requests:
//
//	func (h *Items) Routes(r webserver.Router) {
//	    r.GET("/items/:id", h.show)
//	    r.Handle(http.MethodPut, "/items/:id").
//	        Schema(itemSchema).
//	        Chain("auth", "cache").
//	        Handle(h.update)
//	}
//
// Enhanced handlers are named steps registered with WithEnhancedHandlers and
// selected per route with RouteBuilder.Chain. Each step receives the
// (query, body, ctx, transform) tuple produced by the previous one.
package internal
