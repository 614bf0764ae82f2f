package steps

import (
	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

// RequireParams fails with 400 unless every name is present as a path
// parameter or, failing that, a query parameter.
func RequireParams(names ...string) internal.EnhancedHandler {
	return func(in internal.Args) (*internal.Args, error) {
		var missing validator.ValidationErrors
		for _, name := range names {
			if in.Query.Get(name) != "" || in.Ctx.Query(name) != "" {
				continue
			}
			missing = append(missing, validator.ValidationError{
				Field:   name,
				Rule:    "required",
				Message: "is required",
			})
		}
		if len(missing) == 0 {
			return nil, nil
		}
		return nil, internal.BadRequest(missing.Error(), internal.WithExpose(internal.ValidationErrorBody{
			Code:    "BadRequestError",
			Message: "Bad Request Error",
			Errors:  missing,
		}))
	}
}
