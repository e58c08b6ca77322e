package territory

import "net/http"

// Component bundles the option endpoints with their configuration.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// CountriesHandler returns the country endpoint.
func (c *Component) CountriesHandler() http.Handler {
	if c == nil {
		return CountriesHandler()
	}
	return CountriesHandlerWithOptions(c.opts)
}

// SubdivisionsHandler returns the subdivision endpoint.
func (c *Component) SubdivisionsHandler() http.Handler {
	if c == nil {
		return SubdivisionsHandler()
	}
	return SubdivisionsHandlerWithOptions(c.opts)
}

// RegisterRoutes registers both endpoints under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (Routes, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
