package territory

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes holds the registered mount paths.
type Routes struct {
	Countries    string
	Subdivisions string
}

// MountPaths returns the full mount paths of both endpoints under basePath.
func MountPaths(basePath string, fns ...OptionFn) Routes {
	opts := NewOptions(fns...)
	return Routes{
		Countries:    mountPath(basePath, opts.CountriesPath),
		Subdivisions: mountPath(basePath, opts.SubdivisionsPath),
	}
}

// RegisterRoutes registers the country and subdivision handlers under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers both handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("territory: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	routes := Routes{
		Countries:    mountPath(basePath, opts.CountriesPath),
		Subdivisions: mountPath(basePath, opts.SubdivisionsPath),
	}
	mux.Handle(routes.Countries, CountriesHandlerWithOptions(opts))
	mux.Handle(routes.Subdivisions, SubdivisionsHandlerWithOptions(opts))
	return routes, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + routePath
}
