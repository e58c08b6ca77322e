package render

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/render/template"
	"github.com/goliatone/go-geoform/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Templates returns the embedded template set.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// GlobalDefaultTheme is the template global naming the theme used when a
// render carries no theme of its own.
const GlobalDefaultTheme = "default_theme"

var defaultPartials = map[string]string{
	PartialTerritory:  "territory",
	PartialField:      "field",
	PartialMapDisplay: "map_display",
	PartialMapEdit:    "map_edit",
}

// HTMLOption configures the HTML renderer.
type HTMLOption func(*HTMLRenderer)

// WithTemplateRenderer swaps the template engine.
func WithTemplateRenderer(engine template.TemplateRenderer) HTMLOption {
	return func(r *HTMLRenderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplatesDir renders templates found in dir in place of the embedded
// ones; templates missing from dir fall back to the embedded set. Ignored when
// WithTemplateRenderer supplies the engine.
func WithTemplatesDir(dir string) HTMLOption {
	return func(r *HTMLRenderer) {
		if dir = strings.TrimSpace(dir); dir != "" {
			r.engineOptions = append(r.engineOptions, pongo.WithBaseDir(dir))
		}
	}
}

// WithGlobals exposes data to every template of the default engine, e.g.
// GlobalDefaultTheme.
func WithGlobals(data map[string]any) HTMLOption {
	return func(r *HTMLRenderer) {
		if len(data) > 0 {
			r.engineOptions = append(r.engineOptions, pongo.WithGlobalData(data))
		}
	}
}

// WithPartials overrides template names, keyed by the Partial* constants.
// Theme partials take precedence over these at render time.
func WithPartials(partials map[string]string) HTMLOption {
	return func(r *HTMLRenderer) {
		for key, name := range partials {
			if strings.TrimSpace(name) != "" {
				r.partials[key] = name
			}
		}
	}
}

// HTMLRenderer renders views through the template engine. Field markup is
// sanitised; map names are reduced to text.
type HTMLRenderer struct {
	engine        template.TemplateRenderer
	engineOptions []pongo.Option
	partials      map[string]string
}

var _ Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer returns a renderer backed by the embedded templates unless
// WithTemplateRenderer supplies another engine.
func NewHTMLRenderer(options ...HTMLOption) (*HTMLRenderer, error) {
	r := &HTMLRenderer{partials: make(map[string]string, len(defaultPartials))}
	for key, name := range defaultPartials {
		r.partials[key] = name
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(Templates())}, r.engineOptions...)...)
		if err != nil {
			return nil, fmt.Errorf("render: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func (r *HTMLRenderer) Name() string { return "html" }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render renders view to HTML.
func (r *HTMLRenderer) Render(ctx context.Context, view View, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := view.validate(); err != nil {
		return nil, err
	}

	pass := renderPass{renderer: r, options: options}
	data := map[string]any{
		"theme":         themeView(options.Theme),
		"form_errors":   options.Errors[FormErrorsKey],
		"hidden_fields": SortedHiddenFields(options.Hidden),
	}

	var partial string
	switch view.Kind {
	case ViewTerritory:
		partial = PartialTerritory
		fields, err := pass.fields(view.Tree.Ordered(), "")
		if err != nil {
			return nil, err
		}
		data["tree"] = map[string]any{"id": view.Tree.ID}
		data["fields"] = fields
	case ViewMapEdit:
		partial = PartialMapEdit
		fields, err := pass.fields(view.Fields, "")
		if err != nil {
			return nil, err
		}
		data["fields"] = fields
	case ViewMapDisplay:
		partial = PartialMapDisplay
		data["maps"] = mapViews(view.Maps)
		data["libraries"] = strings.Join(displayLibraries(view.Maps), " ")
	}

	out, err := r.engine.RenderTemplate(pass.template(partial), data)
	if err != nil {
		return nil, fmt.Errorf("render: %s: %w", view.Kind, err)
	}
	return []byte(out), nil
}

type renderPass struct {
	renderer *HTMLRenderer
	options  RenderOptions
}

func (p renderPass) template(partial string) string {
	if cfg := p.options.Theme; cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[partial]); name != "" {
			return name
		}
	}
	return p.renderer.partials[partial]
}

func (p renderPass) fields(fields []model.Field, prefix string) ([]string, error) {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		html, err := p.field(field, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// field renders children bottom-up so templates never recurse.
func (p renderPass) field(field model.Field, prefix string) (string, error) {
	path := field.Key
	if prefix != "" {
		path = prefix + "." + field.Key
	}
	children, err := p.fields(field.Children, path)
	if err != nil {
		return "", err
	}
	view := newFieldView(field)
	view.Children = strings.Join(children, "")
	view.Errors = p.options.Errors[path]

	out, err := p.renderer.engine.RenderTemplate(p.template(PartialField), map[string]any{"field": view})
	if err != nil {
		return "", fmt.Errorf("render: field %q: %w", path, err)
	}
	return out, nil
}

type attrView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	Key             string       `json:"key"`
	Name            string       `json:"name"`
	ID              string       `json:"id"`
	Type            string       `json:"type"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Value           string       `json:"value"`
	Checked         bool         `json:"checked"`
	Required        bool         `json:"required"`
	Hidden          bool         `json:"hidden"`
	Size            string       `json:"size"`
	Classes         string       `json:"classes"`
	Libraries       string       `json:"libraries"`
	Attributes      []attrView   `json:"attributes"`
	Options         []optionView `json:"options"`
	EmptyOption     *optionView  `json:"empty_option"`
	Markup          string       `json:"markup"`
	Prefix          string       `json:"prefix"`
	Suffix          string       `json:"suffix"`
	Children        string       `json:"children"`
	AjaxWrapper     string       `json:"ajax_wrapper"`
	AjaxEvent       string       `json:"ajax_event"`
	VisibilityInput string       `json:"visibility_input"`
	VisibilityRule  string       `json:"visibility_rule"`
	Errors          []string     `json:"errors"`
}

func newFieldView(field model.Field) fieldView {
	value := currentValue(field)
	view := fieldView{
		Key:         field.Key,
		Name:        field.Name,
		ID:          field.ID,
		Type:        string(field.Type),
		Title:       field.Title,
		Description: field.Description,
		Value:       value,
		Required:    field.Required,
		Hidden:      field.Hidden,
		Classes:     strings.Join(field.Classes, " "),
		Libraries:   strings.Join(field.Libraries, " "),
		Markup:      SanitizeMarkup(field.Markup),
		Prefix:      field.Prefix,
		Suffix:      field.Suffix,
	}
	if field.Size > 0 {
		view.Size = strconv.Itoa(field.Size)
	}
	if field.Type == model.FieldTypeCheckbox {
		view.Checked = isChecked(field)
	}
	if field.Ajax != nil {
		view.AjaxWrapper = field.Ajax.Wrapper
		view.AjaxEvent = field.Ajax.Event
	}
	if field.Visibility != nil {
		view.VisibilityInput = field.Visibility.Input
		view.VisibilityRule = field.Visibility.Rule
	}
	if len(field.Attributes) > 0 {
		names := make([]string, 0, len(field.Attributes))
		for name := range field.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			view.Attributes = append(view.Attributes, attrView{Name: name, Value: field.Attributes[name]})
		}
	}
	for _, option := range field.Options {
		view.Options = append(view.Options, optionView{
			Value:    option.Value,
			Label:    option.Label,
			Selected: value != "" && option.Value == value,
		})
	}
	if field.EmptyOption != nil {
		view.EmptyOption = &optionView{
			Value:    field.EmptyOption.Value,
			Label:    field.EmptyOption.Label,
			Selected: value == field.EmptyOption.Value,
		}
	}
	return view
}

// currentValue prefers the submitted value over the default.
func currentValue(field model.Field) string {
	if field.Value != nil {
		return *field.Value
	}
	switch v := field.Default.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func isChecked(field model.Field) bool {
	if field.Value != nil {
		switch strings.ToLower(strings.TrimSpace(*field.Value)) {
		case "1", "true", "on":
			return true
		}
		return false
	}
	switch v := field.Default.(type) {
	case bool:
		return v
	case string:
		return v == "1" || v == "true"
	}
	return false
}

type themeData struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
}

func themeView(cfg *theme.RendererConfig) themeData {
	if cfg == nil {
		return themeData{}
	}
	return themeData{Name: cfg.Theme, Variant: cfg.Variant, Style: CSSVarsStyle(cfg.CSSVars)}
}

type mapView struct {
	Delta        string `json:"delta"`
	NameHTML     string `json:"name_html"`
	Lat          string `json:"lat"`
	Lon          string `json:"lon"`
	Zoom         string `json:"zoom"`
	Type         string `json:"type"`
	ShowMarker   string `json:"show_marker"`
	ShowControls string `json:"show_controls"`
	Width        string `json:"width"`
	Height       string `json:"height"`
}

func mapViews(fragments []mapfield.DisplayFragment) []mapView {
	out := make([]mapView, 0, len(fragments))
	for _, fragment := range fragments {
		out = append(out, mapView{
			Delta:        strconv.Itoa(fragment.Delta),
			NameHTML:     SanitizeText(fragment.Name),
			Lat:          fragment.Lat,
			Lon:          fragment.Lon,
			Zoom:         fragment.Zoom,
			Type:         fragment.Type,
			ShowMarker:   fragment.ShowMarker,
			ShowControls: fragment.ShowControls,
			Width:        fragment.Width,
			Height:       fragment.Height,
		})
	}
	return out
}

func displayLibraries(fragments []mapfield.DisplayFragment) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, fragment := range fragments {
		for _, library := range fragment.Libraries {
			if _, ok := seen[library]; ok {
				continue
			}
			seen[library] = struct{}{}
			out = append(out, library)
		}
	}
	return out
}
