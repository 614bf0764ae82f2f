package internal_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func newServer(t *testing.T, fn func(r internal.Router), opts ...internal.Option) *internal.Server {
	t.Helper()
	opts = append(opts, internal.WithRoutes(routes(fn)))
	return internal.New(opts...)
}

// do sends a request to h. A non-empty body is sent as JSON.
// headers are name, value pairs.
func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
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
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// recovered returns the value fn panicked with, or nil.
func recovered(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

const (
	notFoundBody = `{"code":"NotFoundError","message":"Not Found Error"}`
	internalBody = `{"internalError":true}`
)
