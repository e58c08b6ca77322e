package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Template names a theme manifest can override through its Templates map.
const (
	PartialTerritory  = "geoform.territory"
	PartialField      = "geoform.field"
	PartialMapDisplay = "geoform.map_display"
	PartialMapEdit    = "geoform.map_edit"
)

// ErrThemeNotFound is returned when a theme or variant is not registered.
var ErrThemeNotFound = errors.New("render: theme not found")

// ThemeSelector resolves a theme/variant pair into a selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Themes is an in-memory ThemeSelector over registered manifests. Manifests
// are validated by a go-theme registry on the way in.
type Themes struct {
	mu        sync.RWMutex
	registry  manifestRegistry
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests. The first one becomes the fallback when
// Select is called without a name.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	themes := &Themes{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if err := themes.Register(manifest); err != nil {
			return nil, err
		}
	}
	return themes, nil
}

// Register adds a manifest.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest name is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	t.manifests[manifest.Name] = manifest
	if t.fallback == "" {
		t.fallback = manifest.Name
	}
	return nil
}

// Select returns the named theme. An empty name picks the fallback theme; a
// variant must exist in the manifest.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ResolveTheme selects a theme and derives the renderer configuration from
// it. A nil selector yields a nil config.
func ResolveTheme(selector ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ThemeConfig(selection), nil
}

// ThemeConfig flattens a selection: variant tokens, templates and asset files
// override the manifest's, and every token becomes a --<token> CSS variable.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	variant := manifest.Variants[selection.Variant]
	cfg.Tokens = mergeStrings(manifest.Tokens, variant.Tokens)
	cfg.Partials = mergeStrings(manifest.Templates, variant.Templates)
	if len(cfg.Tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
		for key, value := range cfg.Tokens {
			cfg.CSSVars["--"+key] = value
		}
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// CSSVarsStyle renders CSS variables as an inline style declaration list,
// sorted by name.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
