package middlewares_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	slow := func(d time.Duration) internal.Stage {
		return func(c internal.Context) error {
			time.Sleep(d)
			return nil
		}
	}

	t.Run("passes through when stages complete in time", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		h := newHandler([]internal.Stage{middlewares.Timeout(time.Second)}, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				_, hasDeadline = c.Deadline()
				return c.Resolve("ok")
			})
		})

		rec := serve(h, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, hasDeadline)
	})

	t.Run("answers 503 when the deadline passes", func(t *testing.T) {
		t.Parallel()

		called := false
		h := newHandler([]internal.Stage{
			middlewares.Timeout(5 * time.Millisecond),
			slow(30 * time.Millisecond),
		}, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				called = true
				return c.Resolve("late")
			})
		})

		rec := serve(h, http.MethodGet, "/", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.JSONEq(t, `{"code":"TimeoutError","message":"Request Timeout Error"}`, rec.Body.String())
		require.False(t, called)
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()

		h := newHandler([]internal.Stage{
			middlewares.Timeout(5*time.Millisecond, middlewares.WithTimeoutStatus(http.StatusGatewayTimeout)),
			slow(30 * time.Millisecond),
		}, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return c.Resolve("late") })
		})

		rec := serve(h, http.MethodGet, "/", "")
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("error stage receives a TimeoutError", func(t *testing.T) {
		t.Parallel()

		var got error
		h := newHandler([]internal.Stage{
			middlewares.Timeout(5 * time.Millisecond),
			slow(30 * time.Millisecond),
		}, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return c.Resolve("late") })
		}, internal.WithErrorStage(func(c internal.Context, err error) {
			got = err
			internal.DefaultErrorStage(c, err)
		}))

		serve(h, http.MethodGet, "/", "")
		require.True(t, middlewares.IsTimeoutError(got))
		require.ErrorIs(t, got, context.DeadlineExceeded)

		te, ok := middlewares.AsTimeoutError(got)
		require.True(t, ok)
		require.Equal(t, 5*time.Millisecond, te.Duration)
	})

	t.Run("default timeout for non-positive values", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		h := newHandler([]internal.Stage{middlewares.Timeout(0)}, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				deadline, _ = c.Deadline()
				return c.Resolve("ok")
			})
		})

		serve(h, http.MethodGet, "/", "")
		require.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &middlewares.TimeoutError{Duration: time.Second})
	require.True(t, middlewares.IsTimeoutError(err))
	require.Equal(t, http.StatusServiceUnavailable, internal.StatusCodeOf(err))
	require.Equal(t, "wrapped: request timeout after 1s", err.Error())

	require.False(t, middlewares.IsTimeoutError(errors.New("other")))
	_, ok := middlewares.AsTimeoutError(errors.New("other"))
	require.False(t, ok)
}
