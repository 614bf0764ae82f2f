package validator

import (
	"encoding/json"
	"fmt"
)

// TypedSchema validates an instance and then decodes it into T.
type TypedSchema[T any] struct {
	*Schema
}

// SchemaFor pairs a compiled schema with a target type.
func SchemaFor[T any](s *Schema) TypedSchema[T] {
	return TypedSchema[T]{Schema: s}
}

// Parse validates instance and converts it to T.
func (s TypedSchema[T]) Parse(instance any) (T, error) {
	var out T
	if err := s.Validate(instance); err != nil {
		return out, err
	}
	return Coerce[T](instance)
}

// Coerce converts a decoded JSON instance into T through a JSON round trip.
func Coerce[T any](instance any) (T, error) {
	var out T
	data, err := json.Marshal(instance)
	if err != nil {
		return out, fmt.Errorf("validator: coerce: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("validator: coerce: %w", err)
	}
	return out, nil
}
