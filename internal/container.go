package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrDependencyNotFound is returned when no dependency is registered under a name.
	ErrDependencyNotFound = errors.New("webserver: dependency not found")

	// ErrDependencyType is returned by Dep when the registered value has another type.
	ErrDependencyType = errors.New("webserver: dependency has unexpected type")

	// ErrContainerFrozen is returned by Register once the server has started.
	ErrContainerFrozen = errors.New("webserver: dependency container is frozen")
)

// Container holds named process-wide dependencies (repositories, clients, caches).
// It is written during bootstrap and read-only once the server starts.
type Container struct {
	mu     sync.RWMutex
	deps   map[string]any
	frozen bool
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{deps: make(map[string]any)}
}

// Register stores v under name, replacing any previous value.
func (c *Container) Register(name string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return fmt.Errorf("%w: register %q", ErrContainerFrozen, name)
	}
	c.deps[name] = v
	return nil
}

// Lookup returns the value registered under name.
func (c *Container) Lookup(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.deps[name]
	return v, ok
}

// Names returns the registered names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.deps))
}

func (c *Container) freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Dep returns the dependency registered under name as a T.
func Dep[T any](c *Container, name string) (T, error) {
	var zero T
	v, ok := c.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrDependencyNotFound, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T", ErrDependencyType, name, v)
	}
	return t, nil
}

// MustDep is like Dep but panics on error.
func MustDep[T any](c *Container, name string) T {
	t, err := Dep[T](c, name)
	if err != nil {
		panic(err)
	}
	return t
}
