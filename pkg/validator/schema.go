package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const baseURL = "https://schemas.webserver.local/"

var printer = message.NewPrinter(language.English)

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles a JSON Schema document. The name identifies it in errors and logs.
func Compile(name string, doc []byte) (*Schema, error) {
	inst, err := Decode(bytes.NewReader(doc))
	if err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	return compile(name, inst)
}

// CompileYAML compiles a JSON Schema written in YAML.
func CompileYAML(name string, doc []byte) (*Schema, error) {
	var raw any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	// Re-encode so the compiler sees JSON types only.
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	return Compile(name, data)
}

// MustCompile is like Compile but panics on error.
func MustCompile(name string, doc []byte) *Schema {
	s, err := Compile(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

func compile(name string, inst any) (*Schema, error) {
	url := baseURL + name + ".json"

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, inst); err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// Name returns the name given at compile time.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks instance against the schema and returns ValidationErrors on failure.
func (s *Schema) Validate(instance any) error {
	err := s.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validator: %s: %w", s.name, err)
	}
	return flatten(verr)
}

// Decode reads one JSON value, keeping numbers as json.Number.
func Decode(r io.Reader) (any, error) {
	v, err := jsonschema.UnmarshalJSON(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return v, nil
}

func flatten(root *jsonschema.ValidationError) ValidationErrors {
	var out ValidationErrors
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		out = append(out, leaf(e)...)
	}
	walk(root)

	if len(out) == 0 {
		out = append(out, ValidationError{Rule: "schema", Message: root.LocalizedError(printer)})
	}
	return out
}

func leaf(e *jsonschema.ValidationError) ValidationErrors {
	base := strings.Join(e.InstanceLocation, ".")

	// One entry per missing property so clients can match fields.
	if req, ok := e.ErrorKind.(*kind.Required); ok {
		out := make(ValidationErrors, 0, len(req.Missing))
		for _, name := range req.Missing {
			out = append(out, ValidationError{
				Field:   joinField(base, name),
				Rule:    "required",
				Message: "is required",
			})
		}
		return out
	}

	rule := "schema"
	if kp := e.ErrorKind.KeywordPath(); len(kp) > 0 {
		rule = kp[len(kp)-1]
	}
	return ValidationErrors{{
		Field:   base,
		Rule:    rule,
		Message: e.ErrorKind.LocalizedString(printer),
	}}
}

func joinField(base, name string) string {
	return strings.Join(slices.DeleteFunc([]string{base, name}, func(s string) bool { return s == "" }), ".")
}
