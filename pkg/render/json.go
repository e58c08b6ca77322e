package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer emits the view as JSON for hosts that render field trees
// themselves.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

// NewJSONRenderer returns a JSONRenderer.
func NewJSONRenderer() JSONRenderer { return JSONRenderer{} }

func (JSONRenderer) Name() string { return "json" }

func (JSONRenderer) ContentType() string { return "application/json" }

type jsonTheme struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	CSSVars map[string]string `json:"cssVars,omitempty"`
}

type jsonPayload struct {
	View
	Theme  *jsonTheme          `json:"theme,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
	Hidden []HiddenField       `json:"hidden,omitempty"`
}

// Render marshals view together with the theme summary, errors and hidden
// fields from options.
func (JSONRenderer) Render(ctx context.Context, view View, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := view.validate(); err != nil {
		return nil, err
	}
	payload := jsonPayload{
		View:   view,
		Errors: options.Errors,
		Hidden: SortedHiddenFields(options.Hidden),
	}
	if cfg := options.Theme; cfg != nil {
		payload.Theme = &jsonTheme{Name: cfg.Theme, Variant: cfg.Variant, CSSVars: cfg.CSSVars}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("render: encode %s: %w", view.Kind, err)
	}
	return out, nil
}
