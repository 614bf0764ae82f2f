package internal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

func TestServer_Lifecycle(t *testing.T) {
	t.Parallel()

	var started, stopped bool
	srv := newServer(t, func(r internal.Router) {
		r.GET("/ping", func(c internal.Context) error {
			return c.Resolve("pong")
		})
	},
		internal.WithConfig(internal.Config{Addr: "127.0.0.1:0"}),
		internal.WithDependency("greeting", "hello"),
		internal.WithStartupHook(func(context.Context) error {
			started = true
			return nil
		}),
		internal.WithShutdownHook(func(context.Context) error {
			stopped = true
			return nil
		}),
		internal.WithHealthChecks(),
	)

	require.Empty(t, srv.Addr())
	require.Nil(t, srv.HTTPServer())
	require.ErrorIs(t, srv.Shutdown(context.Background()), internal.ErrServerNotStarted)

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	assert.True(t, started)
	assert.NotEmpty(t, srv.Addr())
	assert.NotNil(t, srv.HTTPServer())
	assert.ErrorIs(t, srv.Start(ctx), internal.ErrServerStarted)

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"pong"`, string(body))

	resp, err = client.Get("http://" + srv.Addr() + "/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("router is frozen", func(t *testing.T) {
		v := recovered(func() {
			srv.Router().GET("/late", func(c internal.Context) error { return nil })
		})
		assert.Equal(t, internal.ErrRouterFrozen, v)
	})

	t.Run("container is frozen", func(t *testing.T) {
		assert.ErrorIs(t, srv.Deps().Register("late", 1), internal.ErrContainerFrozen)
		assert.Equal(t, "hello", internal.MustDep[string](srv.Deps(), "greeting"))
	})

	t.Run("no enhanced handlers after start", func(t *testing.T) {
		err := srv.RegisterEnhancedHandlers(map[string]internal.EnhancedHandler{
			"late": func(in internal.Args) (*internal.Args, error) { return nil, nil },
		})
		assert.ErrorIs(t, err, internal.ErrServerStarted)
	})

	require.NoError(t, srv.Shutdown(ctx))
	assert.True(t, stopped)
	require.NoError(t, srv.Shutdown(ctx))
}

func TestServer_StartupHookFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("migrations failed")
	var stopped bool
	srv := internal.New(
		internal.WithConfig(internal.Config{Addr: "127.0.0.1:0"}),
		internal.WithStartupHook(func(context.Context) error { return boom }),
		internal.WithShutdownHook(func(context.Context) error {
			stopped = true
			return nil
		}),
	)

	err := srv.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, stopped)
}

func TestServer_Run(t *testing.T) {
	t.Parallel()

	srv := internal.New(internal.WithConfig(internal.Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	srv := internal.New(internal.WithConfig(internal.Config{Addr: "256.0.0.1:bad"}))
	require.Error(t, srv.Start(context.Background()))
	assert.Empty(t, srv.Addr())
}
