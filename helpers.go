package webserver

import "github.com/polynode-io/polynode-boilerplate-webserver/internal"

// Scalar is the set of types path and query values convert to.
type Scalar = internal.Scalar

// ContextValue returns the value stored under key as a T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed path parameter.
//
//	id := webserver.Param[int](c, "id")
func Param[T Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a typed query parameter or def.
func QueryDefault[T Scalar](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}

// BodyAs decodes the JSON body into a T, answering 400 when it does not fit.
func BodyAs[T any](c Context) (T, error) {
	return internal.BodyAs[T](c)
}

// Dep returns the dependency registered under name as a T.
func Dep[T any](c *Container, name string) (T, error) {
	return internal.Dep[T](c, name)
}

// MustDep is like Dep but panics on error.
func MustDep[T any](c *Container, name string) T {
	return internal.MustDep[T](c, name)
}
