package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one candidate value from a request.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries its sources in order and returns the first non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(v string) (string, bool) {
	return v, v != ""
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Header(name))
	}
}

// FromQuery reads a query string value.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Query(name))
	}
}

// FromParam reads a path parameter.
func FromParam(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return nonEmpty(c.Param(name))
	}
}

// FromBody reads a top-level field of a JSON object body. Non-string values are formatted.
func FromBody(field string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, ok := c.BodyParams()[field]
		if !ok || v == nil {
			return "", false
		}
		if s, ok := v.(string); ok {
			return nonEmpty(s)
		}
		return nonEmpty(fmt.Sprint(v))
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer <token>" header.
func FromBearerToken() ExtractorSource {
	return func(c Context) (string, bool) {
		auth := c.Header("Authorization")
		const prefix = "bearer "
		if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
			return "", false
		}
		return nonEmpty(strings.TrimSpace(auth[len(prefix):]))
	}
}
