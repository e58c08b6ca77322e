// Package geoform is the quick-start entry point: it builds territory field
// trees and map field fragments over the embedded address dataset and renders
// them with the built-in templates.
package geoform

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/address/memory"
	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

// Territory is the stored territory value.
type Territory = territory.Territory

// TerritoryRequest carries the state a territory tree is built from.
type TerritoryRequest = territory.Request

// MapRecord is one stored map field item.
type MapRecord = mapfield.MapRecord

// RenderOptions carries per-request theme, errors and hidden inputs.
type RenderOptions = render.RenderOptions

// DefaultRepositories exposes the embedded address dataset through the
// repository interfaces.
func DefaultRepositories() (address.Repositories, error) {
	store, err := memory.Default()
	if err != nil {
		return address.Repositories{}, err
	}
	return store.Repositories(), nil
}

// NewBuilder returns a territory builder over the embedded dataset.
func NewBuilder(options ...territory.Option) (*territory.Builder, error) {
	repos, err := DefaultRepositories()
	if err != nil {
		return nil, err
	}
	return territory.New(repos, options...)
}

// EmbeddedTemplates exposes the built-in templates so callers can reuse or
// extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}

// GenerateTerritoryHTML builds the territory tree for req and renders it.
func GenerateTerritoryHTML(ctx context.Context, req TerritoryRequest, options RenderOptions) ([]byte, error) {
	builder, err := NewBuilder()
	if err != nil {
		return nil, err
	}
	result, err := builder.Build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geoform: build territory: %w", err)
	}
	return renderHTML(ctx, render.TerritoryView(result.Tree), options)
}

// GenerateMapDisplayHTML formats items and renders the display fragments.
func GenerateMapDisplayHTML(ctx context.Context, items []MapRecord, options RenderOptions) ([]byte, error) {
	return renderHTML(ctx, render.MapDisplayView(mapfield.NewFormatter().RenderList(items)), options)
}

// GenerateMapEditHTML renders the edit fieldsets of fieldName, one per item
// plus an empty trailing item when extra is true.
func GenerateMapEditHTML(ctx context.Context, fieldName string, items []MapRecord, extra bool, options RenderOptions) ([]byte, error) {
	widget, err := mapfield.NewWidget(fieldName)
	if err != nil {
		return nil, err
	}
	return renderHTML(ctx, render.MapEditView(widget.BuildEditForms(items, extra)), options)
}

func renderHTML(ctx context.Context, view render.View, options RenderOptions) ([]byte, error) {
	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, view, options)
}
