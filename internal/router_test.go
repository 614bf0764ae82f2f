package internal_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

const origin = "https://app.example"

func preflight(t *testing.T, h http.Handler, target, method string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodOptions, target, "",
		"Origin", origin,
		"Access-Control-Request-Method", method,
		"Access-Control-Request-Headers", "Content-Type",
	)
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	var calls int
	handler := func(c internal.Context) error {
		calls++
		return c.Resolve(map[string]string{"id": c.Param("id")})
	}

	srv := newServer(t, func(r internal.Router) {
		r.PUT("/items/:id", handler)
		r.DELETE("/items/:id", handler)
		r.GET("/list", handler)
		r.OPTIONS("/custom", func(c internal.Context) error {
			return c.Resolve("custom")
		})
		r.PATCH("/custom", handler)
	})

	t.Run("non-simple method gets a preflight", func(t *testing.T) {
		w := preflight(t, srv.Handler(), "/items/5", http.MethodPut)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
		assert.Empty(t, w.Body.String())
		assert.Zero(t, calls)
	})

	t.Run("preflight without origin still lists methods", func(t *testing.T) {
		w := do(t, srv.Handler(), http.MethodOptions, "/items/5", "")
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		assert.Zero(t, calls)
	})

	t.Run("actual request carries cors headers", func(t *testing.T) {
		w := do(t, srv.Handler(), http.MethodPut, "/items/5", "", "Origin", origin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.JSONEq(t, `{"id":"5"}`, w.Body.String())
	})

	t.Run("simple method has no preflight", func(t *testing.T) {
		w := preflight(t, srv.Handler(), "/list", http.MethodGet)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

		w = do(t, srv.Handler(), http.MethodGet, "/list", "", "Origin", origin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("explicit options route wins", func(t *testing.T) {
		w := preflight(t, srv.Handler(), "/custom", http.MethodPatch)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `"custom"`, w.Body.String())
	})
}

func TestRouter_CORSPolicy(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(r internal.Router) {
		r.PUT("/items/:id", func(c internal.Context) error {
			return c.Resolve(nil, http.StatusNoContent)
		})
	}, internal.WithCORSPolicy(
		internal.WithAllowOrigins("https://a.example"),
		internal.WithAllowHeaders("Content-Type", "Authorization"),
		internal.WithAllowCredentials(false),
	))

	allowed := do(t, srv.Handler(), http.MethodOptions, "/items/1", "",
		"Origin", "https://a.example", "Access-Control-Request-Method", http.MethodPut)
	require.Equal(t, http.StatusNoContent, allowed.Code)
	assert.Equal(t, "https://a.example", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, Authorization", allowed.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, allowed.Header().Get("Access-Control-Allow-Credentials"))

	denied := do(t, srv.Handler(), http.MethodOptions, "/items/1", "",
		"Origin", "https://b.example", "Access-Control-Request-Method", http.MethodPut)
	require.Equal(t, http.StatusNoContent, denied.Code)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, denied.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_GlobalCORS(t *testing.T) {
	t.Parallel()

	srv := newServer(t, func(r internal.Router) {
		r.GET("/list", func(c internal.Context) error {
			return c.Resolve([]int{1, 2})
		})
	}, internal.WithCORS(internal.WithExposeHeaders("X-Request-ID")))

	w := do(t, srv.Handler(), http.MethodGet, "/list", "", "Origin", origin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))

	w = preflight(t, srv.Handler(), "/list", http.MethodGet)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_AllAndGroups(t *testing.T) {
	t.Parallel()

	var calls int
	srv := newServer(t, func(r internal.Router) {
		r.ALL("/any", func(c internal.Context) error {
			calls++
			return c.Resolve(c.Request().Method)
		})
		r.Route("/v1", func(r internal.Router) {
			r.PUT("/things/:id", func(c internal.Context) error {
				return c.Resolve(c.RoutePattern() + " " + c.Param("id"))
			})
		})
		r.Group(func(r internal.Router) {
			r.GET("/grouped", func(c internal.Context) error {
				return c.Resolve("grouped")
			})
		})
		r.Mount("/static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("raw"))
		}))
	})

	w := do(t, srv.Handler(), http.MethodPatch, "/any", "")
	assert.Equal(t, `"PATCH"`, w.Body.String())

	w = preflight(t, srv.Handler(), "/any", http.MethodPatch)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, calls)

	w = do(t, srv.Handler(), http.MethodPut, "/v1/things/3", "")
	assert.Equal(t, `"/v1/things/{id} 3"`, w.Body.String())

	w = preflight(t, srv.Handler(), "/v1/things/3", http.MethodPut)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv.Handler(), http.MethodGet, "/grouped", "")
	assert.Equal(t, `"grouped"`, w.Body.String())

	w = do(t, srv.Handler(), http.MethodGet, "/static/app.js", "")
	assert.Equal(t, "raw", w.Body.String())
}

func TestRouter_RouteOptions(t *testing.T) {
	t.Parallel()

	var got internal.RouteOptions
	var p *internal.Pipeline
	srv := newServer(t, func(r internal.Router) {
		p = r.Handle(http.MethodGet, "/opts").
			Options(internal.ForceExecution(), internal.WithExtra("role", "admin")).
			HandleFunc(func(c internal.Context) error {
				got = c.RouteOptions()
				return c.Resolve(nil, http.StatusNoContent)
			})
	}, internal.WithDefaultRouteOptions(internal.AllowAnonymous()))

	do(t, srv.Handler(), http.MethodGet, "/opts", "")

	assert.True(t, got.AllowAnonymous)
	assert.True(t, got.ForceExecution)
	assert.False(t, got.DisableAutoFlush)
	assert.Equal(t, "admin", got.Get("role"))
	assert.Equal(t, got, p.Options())
}

func TestRouter_EnhancedChain(t *testing.T) {
	t.Parallel()

	var handlerCalls int
	set := map[string]internal.EnhancedHandler{
		"rewrite": func(in internal.Args) (*internal.Args, error) {
			return &internal.Args{
				Query: internal.Params{"id": "7"},
				Body:  "b1",
				Ctx:   in.Ctx,
				Transform: func(result any) (any, error) {
					return map[string]any{"wrapped": result}, nil
				},
			}, nil
		},
		"noop": func(in internal.Args) (*internal.Args, error) {
			return nil, nil
		},
		"deny": func(in internal.Args) (*internal.Args, error) {
			return nil, internal.Unauthorized("no token")
		},
		"short": func(in internal.Args) (*internal.Args, error) {
			return nil, in.Ctx.Resolve("cached")
		},
	}

	joined := func(q internal.Params, body any, c internal.Context) (any, error) {
		handlerCalls++
		b, _ := body.(string)
		return q.Get("id") + ":" + b, nil
	}

	srv := newServer(t, func(r internal.Router) {
		r.Handle(http.MethodGet, "/rewrite").Chain("noop", "rewrite").Handle(joined)
		r.Handle(http.MethodGet, "/param/:id").Chain("noop").Handle(joined)
		r.Handle(http.MethodGet, "/deny").Chain("deny", "rewrite").Handle(joined)
		r.Handle(http.MethodGet, "/short").Chain("short").Handle(joined)
		r.Handle(http.MethodGet, "/last").Handle(
			func(internal.Params, any, internal.Context) (any, error) { return "first", nil },
			func(internal.Params, any, internal.Context) (any, error) { return "second", nil },
		)
		r.Handle(http.MethodGet, "/manual").
			Chain("rewrite").
			Options(internal.DisableAutoFlush()).
			Handle(func(q internal.Params, _ any, c internal.Context) (any, error) {
				return "ignored", c.Resolve("manual "+q.Get("id"), http.StatusAccepted)
			})
		r.Handle(http.MethodGet, "/unflushed").
			Options(internal.DisableAutoFlush()).
			Handle(func(internal.Params, any, internal.Context) (any, error) { return "lost", nil })
		r.Handle(http.MethodGet, "/func/:id").Chain("noop").HandleFunc(func(c internal.Context) error {
			return c.Resolve(c.Param("id"))
		})
	}, internal.WithEnhancedHandlers(set))

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/rewrite", http.StatusOK, `{"wrapped":"7:b1"}`},
		{"/param/3", http.StatusOK, `"3:"`},
		{"/deny", http.StatusUnauthorized, `{"code":"UnauthorizedError","message":"Unauthorized Error"}`},
		{"/short", http.StatusOK, `"cached"`},
		{"/last", http.StatusOK, `"second"`},
		{"/manual", http.StatusAccepted, `"manual 7"`},
		{"/unflushed", http.StatusNotFound, notFoundBody},
		{"/func/9", http.StatusOK, `"9"`},
	}

	for _, tt := range tests {
		w := do(t, srv.Handler(), http.MethodGet, tt.target, "")
		assert.Equal(t, tt.status, w.Code, tt.target)
		assert.JSONEq(t, tt.want, w.Body.String(), tt.target)
	}

	// Only /rewrite and /param reach the joined handler.
	assert.Equal(t, 2, handlerCalls)
}

func TestRouter_Misconfiguration(t *testing.T) {
	t.Parallel()

	step := func(in internal.Args) (*internal.Args, error) { return nil, nil }

	t.Run("unknown enhanced handler", func(t *testing.T) {
		t.Parallel()
		v := recovered(func() {
			newServer(t, func(r internal.Router) {
				r.Handle(http.MethodGet, "/x").Chain("missing").Handle()
			})
		})
		err, ok := v.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, internal.ErrUnknownHandler)
	})

	t.Run("duplicate enhanced handler", func(t *testing.T) {
		t.Parallel()
		v := recovered(func() {
			internal.New(
				internal.WithEnhancedHandlers(map[string]internal.EnhancedHandler{"auth": step}),
				internal.WithEnhancedHandlers(map[string]internal.EnhancedHandler{"auth": step}),
			)
		})
		err, ok := v.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, internal.ErrDuplicateHandler)
	})

	t.Run("failing server enhancer", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		v := recovered(func() {
			internal.New(internal.WithServerEnhancer(func(*internal.Server) error { return boom }))
		})
		err, ok := v.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, boom)
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	step := func(in internal.Args) (*internal.Args, error) { return nil, nil }

	base, err := internal.NewRegistry(map[string]internal.EnhancedHandler{"a": step})
	require.NoError(t, err)

	next, err := base.With(map[string]internal.EnhancedHandler{"b": step})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, base.Names())
	assert.Equal(t, []string{"a", "b"}, next.Names())

	_, ok := next.Lookup("b")
	assert.True(t, ok)
	_, ok = base.Lookup("b")
	assert.False(t, ok)

	_, err = next.With(map[string]internal.EnhancedHandler{"a": step})
	assert.ErrorIs(t, err, internal.ErrDuplicateHandler)

	_, err = base.With(map[string]internal.EnhancedHandler{"nil": nil})
	assert.Error(t, err)
}

func TestServer_RegisterEnhancedHandlers(t *testing.T) {
	t.Parallel()

	step := func(in internal.Args) (*internal.Args, error) {
		return &internal.Args{Query: in.Query, Body: "late", Ctx: in.Ctx}, nil
	}

	srv := internal.New(internal.WithServerEnhancer(func(s *internal.Server) error {
		if err := s.RegisterEnhancedHandlers(map[string]internal.EnhancedHandler{"late": step}); err != nil {
			return err
		}
		s.Router().Handle(http.MethodGet, "/late").Chain("late").Handle(
			func(_ internal.Params, body any, _ internal.Context) (any, error) { return body, nil },
		)
		return nil
	}))

	assert.Equal(t, []string{"late"}, srv.Registry().Names())
	w := do(t, srv.Handler(), http.MethodGet, "/late", "")
	assert.Equal(t, `"late"`, w.Body.String())

	t.Run("declared routes see enhancer handlers", func(t *testing.T) {
		t.Parallel()

		var srv *internal.Server
		require.NotPanics(t, func() {
			srv = newServer(t, func(r internal.Router) {
				r.Handle(http.MethodGet, "/declared").Chain("late").Handle(
					func(_ internal.Params, body any, _ internal.Context) (any, error) { return body, nil },
				)
			}, internal.WithServerEnhancer(func(s *internal.Server) error {
				return s.RegisterEnhancedHandlers(map[string]internal.EnhancedHandler{"late": step})
			}))
		})

		w := do(t, srv.Handler(), http.MethodGet, "/declared", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `"late"`, w.Body.String())
	})
}

func TestChiPattern(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/items":               "/items",
		"/items/:id":           "/items/{id}",
		"/a/:x/b/:y":           "/a/{x}/b/{y}",
		"/files/*":             "/files/*",
		"/items/{id}":          "/items/{id}",
		"/time/12:30":          "/time/12:30",
		"/users/:uid/posts/:n": "/users/{uid}/posts/{n}",
	}
	for in, want := range tests {
		assert.Equal(t, want, internal.ChiPattern(in), in)
	}
}
