package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the field tree.
type RenderOptions struct {
	// Theme carries the resolved theme; tokens surface as CSS variables on
	// the outer wrapper.
	Theme *theme.RendererConfig
	// Errors surfaces server-side validation feedback keyed by field path
	// (see MapErrorPayload). Unmatched messages belong under FormErrorsKey.
	Errors map[string][]string
	// Hidden adds hidden inputs next to the rendered fields, e.g. a CSRF
	// token. Names are rendered verbatim.
	Hidden map[string]string
}

// FormErrorsKey collects messages that do not belong to a single field.
const FormErrorsKey = "__form__"
