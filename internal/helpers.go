package internal

import (
	"reflect"
	"strconv"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

// Scalar is the set of types path and query values convert to.
// Named types are converted through their underlying kind.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the value stored under key as a T, or T's zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param returns a typed path parameter. Unparsable values yield the zero value.
func Param[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query returns a typed query parameter. Unparsable values yield the zero value.
func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault returns a typed query parameter, or def when missing or unparsable.
func QueryDefault[T Scalar](c Context, name string, def T) T {
	if v, ok := parseScalar[T](c.Query(name)); ok && c.Query(name) != "" {
		return v
	}
	return def
}

// BodyAs decodes the JSON body into a T.
func BodyAs[T any](c Context) (T, error) {
	v, err := validator.Coerce[T](c.Body())
	if err != nil {
		return v, BadRequest("request body does not match the expected shape", WithCause(err))
	}
	return v, nil
}

func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, false
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		v.SetBool(b)
	default:
		return out, false
	}
	return out, true
}
