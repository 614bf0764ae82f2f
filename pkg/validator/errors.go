package validator

import (
	"errors"
	"strings"
)

var (
	ErrInvalidSchema = errors.New("validator: invalid schema")
	ErrInvalidJSON   = errors.New("validator: invalid JSON")
)

// ValidationError describes one failed rule on one field.
// Field is a dotted path into the instance; the root is "".
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors is returned by Schema.Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, ve := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		if ve.Field != "" {
			b.WriteString(ve.Field)
			b.WriteString(": ")
		}
		b.WriteString(ve.Message)
	}
	return b.String()
}

// Has reports whether field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	return len(e.Get(field)) > 0
}

// Get returns the messages recorded for field.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, ve := range e {
		if ve.Field == field {
			msgs = append(msgs, ve.Message)
		}
	}
	return msgs
}

// IsValidationError reports whether err is or wraps ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors in err's chain, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
