package middlewares_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// newHandler builds a server with the given pre-hooks and routes.
func newHandler(hooks []internal.Stage, fn func(r internal.Router), opts ...internal.Option) http.Handler {
	opts = append(opts,
		internal.WithPreHooks(hooks...),
		internal.WithRoutes(routes(fn)),
	)
	return internal.New(opts...).Handler()
}

// serve sends a request; a non-empty body is sent as JSON. headers are name, value pairs.
func serve(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
