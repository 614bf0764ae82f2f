package validator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/validator"
)

const itemSchema = `{
	"type": "object",
	"required": ["name", "price"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"price": {"type": "number", "minimum": 0},
		"tags": {"type": "array", "items": {"type": "string"}}
	}
}`

const itemSchemaYAML = `
type: object
required: [name]
properties:
  name:
    type: string
`

type item struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := validator.Decode(strings.NewReader(s))
	require.NoError(t, err)
	return v
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("valid schema", func(t *testing.T) {
		t.Parallel()
		s, err := validator.Compile("item", []byte(itemSchema))
		require.NoError(t, err)
		assert.Equal(t, "item", s.Name())
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := validator.Compile("broken", []byte(`{"type":`))
		require.ErrorIs(t, err, validator.ErrInvalidSchema)
	})

	t.Run("invalid keyword value", func(t *testing.T) {
		t.Parallel()
		_, err := validator.Compile("bad-type", []byte(`{"type": 12}`))
		require.ErrorIs(t, err, validator.ErrInvalidSchema)
	})

	t.Run("must compile panics", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() { validator.MustCompile("x", []byte(`nope`)) })
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		s, err := validator.CompileYAML("item-yaml", []byte(itemSchemaYAML))
		require.NoError(t, err)
		require.NoError(t, s.Validate(decode(t, `{"name":"pen"}`)))
		require.Error(t, s.Validate(decode(t, `{}`)))
	})
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()
	s := validator.MustCompile("item", []byte(itemSchema))

	t.Run("valid instance", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, s.Validate(decode(t, `{"name":"pen","price":1.5}`)))
	})

	t.Run("missing properties are reported per field", func(t *testing.T) {
		t.Parallel()
		err := s.Validate(decode(t, `{}`))
		require.True(t, validator.IsValidationError(err))

		errs := validator.ExtractValidationErrors(err)
		require.True(t, errs.Has("name"))
		require.True(t, errs.Has("price"))
		for _, e := range errs {
			assert.Equal(t, "required", e.Rule)
			assert.Equal(t, "is required", e.Message)
		}
	})

	t.Run("nested field paths", func(t *testing.T) {
		t.Parallel()
		err := s.Validate(decode(t, `{"name":"pen","price":-1,"tags":["a",3]}`))
		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 2)

		byField := map[string]string{}
		for _, e := range errs {
			byField[e.Field] = e.Rule
			assert.NotEmpty(t, e.Message)
		}
		assert.Equal(t, "minimum", byField["price"])
		assert.Equal(t, "type", byField["tags.1"])
	})

	t.Run("wrong root type", func(t *testing.T) {
		t.Parallel()
		errs := validator.ExtractValidationErrors(s.Validate(decode(t, `[1]`)))
		require.Len(t, errs, 1)
		assert.Equal(t, "", errs[0].Field)
		assert.Equal(t, "type", errs[0].Rule)
	})

	t.Run("go values validate", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, s.Validate(map[string]any{"name": "pen", "price": 2.0}))
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	_, err := validator.Decode(strings.NewReader(`{"a":`))
	require.ErrorIs(t, err, validator.ErrInvalidJSON)
}

func TestSchemaFor(t *testing.T) {
	t.Parallel()
	typed := validator.SchemaFor[item](validator.MustCompile("item", []byte(itemSchema)))

	got, err := typed.Parse(decode(t, `{"name":"pen","price":2,"tags":["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, item{Name: "pen", Price: 2, Tags: []string{"x"}}, got)

	_, err = typed.Parse(decode(t, `{"name":""}`))
	require.True(t, validator.IsValidationError(err))
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "email", Rule: "required", Message: "is required"},
		{Field: "email", Rule: "format", Message: "must be an email"},
		{Rule: "type", Message: "must be an object"},
	}

	assert.Equal(t, []string{"is required", "must be an email"}, errs.Get("email"))
	assert.False(t, errs.Has("name"))
	assert.Equal(t, "validation failed: email: is required; email: must be an email; must be an object", errs.Error())

	wrapped := fmt.Errorf("create item: %w", errs)
	assert.True(t, validator.IsValidationError(wrapped))
	assert.Len(t, validator.ExtractValidationErrors(wrapped), 3)
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("other")))
}
