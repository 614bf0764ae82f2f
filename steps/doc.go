// Package steps provides enhanced handlers, the named steps routes select
// with RouteBuilder.Chain.
//
//	srv := webserver.New(
//	    webserver.WithEnhancedHandlers(map[string]webserver.EnhancedHandler{
//	        "cache":   steps.Cache(store, time.Minute),
//	        "needsID": steps.RequireParams("id"),
//	        "item":    steps.Bind[Item](),
//	    }),
//	)
//
//	r.Handle(http.MethodGet, "/items/:id").Chain("needsID", "cache").Handle(h.show)
package steps
