// Package api embeds the OpenAPI document served by geoform-server.
package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Document returns a copy of the raw OpenAPI YAML.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("api: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("api: document does not contain any paths")
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("api: validate: %w", err)
	}
	return spec, nil
}

// Route is a method and path pair declared by the document.
type Route struct {
	Method string
	Path   string
}

// Routes lists every operation declared by spec.
func Routes(spec *openapi3.T) []Route {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	var out []Route
	for _, path := range spec.Paths.InMatchingOrder() {
		item := spec.Paths.Value(path)
		if item == nil {
			continue
		}
		for method := range item.Operations() {
			out = append(out, Route{Method: method, Path: path})
		}
	}
	return out
}
