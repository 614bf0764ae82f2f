package internal

import "maps"

// RouteOptions are the effective options of one route: server defaults merged with
// the route's own overrides. Stages read them through Context.RouteOptions.
type RouteOptions struct {
	// AllowAnonymous lets unauthenticated requests through authentication pre-hooks.
	AllowAnonymous bool

	// ForceExecution makes caching steps run the handlers even when a cached result exists.
	ForceExecution bool

	// DisableAutoFlush stops the enhanced chain from resolving its result;
	// the route handler must call Resolve or Reject itself.
	DisableAutoFlush bool

	// ResponseContentType overrides Config.DefaultOutputContentType for Resolve.
	ResponseContentType string

	// Extra carries application-defined options.
	Extra map[string]any
}

// Get returns an application-defined option.
func (o RouteOptions) Get(key string) any {
	return o.Extra[key]
}

// RouteOption overrides one route option.
type RouteOption func(*RouteOptions)

func AllowAnonymous() RouteOption {
	return func(o *RouteOptions) { o.AllowAnonymous = true }
}

func ForceExecution() RouteOption {
	return func(o *RouteOptions) { o.ForceExecution = true }
}

func DisableAutoFlush() RouteOption {
	return func(o *RouteOptions) { o.DisableAutoFlush = true }
}

// ResponseContentType sets the content type used by Resolve on this route.
func ResponseContentType(ct string) RouteOption {
	return func(o *RouteOptions) { o.ResponseContentType = ct }
}

// WithExtra sets an application-defined option.
func WithExtra(key string, value any) RouteOption {
	return func(o *RouteOptions) {
		if o.Extra == nil {
			o.Extra = make(map[string]any)
		}
		o.Extra[key] = value
	}
}

// apply returns a copy of o with opts applied. The Extra map is never shared
// between routes.
func (o RouteOptions) apply(opts ...RouteOption) RouteOptions {
	out := o
	out.Extra = maps.Clone(o.Extra)
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
