package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrDuplicateHandler is returned when an enhanced handler name is registered twice.
	ErrDuplicateHandler = errors.New("webserver: duplicate enhanced handler")

	// ErrUnknownHandler is the panic value for a route chaining an unregistered name.
	ErrUnknownHandler = errors.New("webserver: unknown enhanced handler")
)

// Registry maps names to enhanced handlers. It is a value: With returns a new
// registry and never changes the receiver, so routes bound earlier keep the
// handlers they resolved.
type Registry struct {
	handlers map[string]EnhancedHandler
}

// NewRegistry builds a registry from one or more handler sets.
func NewRegistry(sets ...map[string]EnhancedHandler) (Registry, error) {
	var r Registry
	for _, set := range sets {
		var err error
		if r, err = r.With(set); err != nil {
			return Registry{}, err
		}
	}
	return r, nil
}

// With returns a registry that also holds set. Names already present are an error.
func (r Registry) With(set map[string]EnhancedHandler) (Registry, error) {
	next := maps.Clone(r.handlers)
	if next == nil {
		next = make(map[string]EnhancedHandler, len(set))
	}
	for name, h := range set {
		if h == nil {
			return r, fmt.Errorf("webserver: enhanced handler %q is nil", name)
		}
		if _, ok := next[name]; ok {
			return r, fmt.Errorf("%w: %q", ErrDuplicateHandler, name)
		}
		next[name] = h
	}
	return Registry{handlers: next}, nil
}

// Lookup returns the handler registered under name.
func (r Registry) Lookup(name string) (EnhancedHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered names, sorted.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.handlers))
}

type chainStep struct {
	name string
	fn   EnhancedHandler
}

// resolve maps names to handlers at bind time. Unknown names panic.
func (r Registry) resolve(names []string) []chainStep {
	steps := make([]chainStep, 0, len(names))
	for _, name := range names {
		h, ok := r.handlers[name]
		if !ok {
			panic(fmt.Errorf("%w: %q", ErrUnknownHandler, name))
		}
		steps = append(steps, chainStep{name: name, fn: h})
	}
	return steps
}

// chainStage runs the named steps, then the route handlers, then resolves the
// last result through the current transform unless autoFlush is off.
// Steps see the tuple returned by the previous step; a nil tuple keeps the
// previous one. A step or handler that settles the request ends the chain.
func chainStage(steps []chainStep, handlers []RouteHandler, autoFlush bool) Stage {
	return func(c Context) error {
		args := Args{Query: c.Params(), Body: c.Body(), Ctx: c}

		for _, st := range steps {
			next, err := st.fn(args)
			if err != nil {
				c.LogDebug("enhanced handler failed", "handler", st.name, "error", err.Error())
				return c.Reject(err)
			}
			if c.Settled() {
				return nil
			}
			if next != nil {
				args = *next
				if args.Ctx == nil {
					args.Ctx = c
				}
			}
			c.LogTrace("enhanced handler finished", "handler", st.name)
		}

		var result any
		for _, h := range handlers {
			res, err := h(args.Query, args.Body, args.Ctx)
			if err != nil {
				return c.Reject(err)
			}
			if c.Settled() {
				return nil
			}
			result = res
		}

		if args.Transform != nil {
			var err error
			if result, err = args.Transform(result); err != nil {
				return c.Reject(err)
			}
		}

		if !autoFlush || c.Settled() {
			return nil
		}
		return c.Resolve(result)
	}
}
