package steps

import (
	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

// Bind replaces the body with its decoding into T. A body that does not
// fit T fails with 400.
func Bind[T any]() internal.EnhancedHandler {
	return func(in internal.Args) (*internal.Args, error) {
		v, err := validator.Coerce[T](in.Body)
		if err != nil {
			return nil, internal.BadRequest("request body does not match the expected shape", internal.WithCause(err))
		}
		next := in
		next.Body = v
		return &next, nil
	}
}

// BindSchema validates the body against s before decoding it into T.
// Validation failures answer 422 with the field errors.
func BindSchema[T any](s *validator.Schema) internal.EnhancedHandler {
	typed := validator.SchemaFor[T](s)
	return func(in internal.Args) (*internal.Args, error) {
		v, err := typed.Parse(in.Body)
		if err != nil {
			if errs := validator.ExtractValidationErrors(err); errs != nil {
				return nil, internal.ValidationFailed(errs, err)
			}
			return nil, internal.BadRequest("request body does not match the expected shape", internal.WithCause(err))
		}
		next := in
		next.Body = v
		return &next, nil
	}
}
