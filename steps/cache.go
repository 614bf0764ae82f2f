package steps

import (
	"context"
	"errors"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/cache"
)

// CacheStatusHeader reports whether a response came from the cache.
const CacheStatusHeader = "X-Cache"

// CacheKeyFunc derives the cache key of a request.
type CacheKeyFunc func(c internal.Context) string

// CacheConfig configures the cache step.
type CacheConfig struct {
	Key CacheKeyFunc
}

// CacheOption configures CacheConfig.
type CacheOption func(*CacheConfig)

// WithCacheKey overrides the default "METHOD /path?query" key.
func WithCacheKey(fn CacheKeyFunc) CacheOption {
	return func(cfg *CacheConfig) {
		cfg.Key = fn
	}
}

func requestKey(c internal.Context) string {
	return c.Request().Method + " " + c.Request().URL.RequestURI()
}

// Cache answers from store when the key is present and otherwise stores the
// chain's final result for ttl. Routes with the ForceExecution option always
// run their handlers and refresh the entry. Store failures are logged and
// never fail the request.
func Cache(store cache.Cache[any], ttl time.Duration, opts ...CacheOption) internal.EnhancedHandler {
	cfg := &CacheConfig{Key: requestKey}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(in internal.Args) (*internal.Args, error) {
		c := in.Ctx
		key := cfg.Key(c)

		if !c.RouteOptions().ForceExecution {
			v, err := store.Get(c, key)
			switch {
			case err == nil:
				c.SetHeader(CacheStatusHeader, "HIT")
				return nil, c.Resolve(v)
			case !errors.Is(err, cache.ErrNotFound):
				c.LogWarn("cache read failed", "key", key, "error", err.Error())
			}
		}
		c.SetHeader(CacheStatusHeader, "MISS")

		next := in
		prev := in.Transform
		next.Transform = func(result any) (any, error) {
			if prev != nil {
				var err error
				if result, err = prev(result); err != nil {
					return nil, err
				}
			}
			if err := store.Set(c, key, result, ttl); err != nil {
				c.LogWarn("cache write failed", "key", key, "error", err.Error())
			}
			return result, nil
		}
		return &next, nil
	}
}

// Shared wraps h so concurrent requests with the same key run it once and
// share the result, which is then cached for ttl. Routes with the
// ForceExecution option always run h and refresh the entry.
func Shared(store cache.Cache[any], ttl time.Duration, h internal.RouteHandler, opts ...CacheOption) internal.RouteHandler {
	cfg := &CacheConfig{Key: requestKey}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(query internal.Params, body any, c internal.Context) (any, error) {
		key := cfg.Key(c)
		if c.RouteOptions().ForceExecution {
			result, err := h(query, body, c)
			if err != nil {
				return nil, err
			}
			if err := store.Set(c, key, result, ttl); err != nil {
				c.LogWarn("cache write failed", "key", key, "error", err.Error())
			}
			return result, nil
		}

		return cache.GetOrSet(c, store, key, func(context.Context) (any, time.Duration, error) {
			result, err := h(query, body, c)
			return result, ttl, err
		})
	}
}
