package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout stage.
type TimeoutConfig struct {
	Timeout    time.Duration
	StatusCode int
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutStatus sets the status answered on timeout. Default: 503.
func WithTimeoutStatus(code int) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.StatusCode = code
	}
}

// Timeout returns a pre-hook that puts a deadline on the request context.
// Stages after it see the deadline through the context. Once it passes, the
// pipeline stops before the next stage and the error stage receives a
// *TimeoutError. A stage that is already running is not interrupted; pass the
// context to blocking calls so they return early.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Stage {
	cfg := &TimeoutConfig{
		Timeout:    timeout,
		StatusCode: http.StatusServiceUnavailable,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(c internal.Context) error {
		terr := &TimeoutError{Duration: cfg.Timeout, Code: cfg.StatusCode}
		ctx, cancel := context.WithTimeoutCause(c.Request().Context(), cfg.Timeout, terr)
		c.SetContext(ctx)
		c.Defer(func() {
			if context.Cause(ctx) == terr {
				c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
			}
			cancel()
		})
		return nil
	}
}
