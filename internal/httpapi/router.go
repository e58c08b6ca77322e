// Package httpapi exposes the territory builder, the map formatter and the
// map widget over HTTP with gin.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-geoform/api"
	optioncomponent "github.com/goliatone/go-geoform/components/territory"
	"github.com/goliatone/go-geoform/internal/logging"
	"github.com/goliatone/go-geoform/internal/metrics"
	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

// Dependencies carries everything the handlers need.
type Dependencies struct {
	Builder      *territory.Builder
	Repositories address.Repositories
	Renderers    *render.Registry
	Themes       render.ThemeSelector
	Formatter    mapfield.Formatter
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger

	// DefaultTheme and DefaultVariant apply when a request names no theme.
	DefaultTheme   string
	DefaultVariant string
}

var (
	errMissingBuilder   = errors.New("httpapi: territory builder is required")
	errMissingRenderers = errors.New("httpapi: renderer registry is required")
)

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Builder == nil {
		return nil, errMissingBuilder
	}
	if deps.Renderers == nil {
		return nil, errMissingRenderers
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(deps.Logger))
	r.Use(deps.Metrics.Middleware())

	h := &handlers{deps: deps}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", api.Document())
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/territory/build", h.buildTerritory)
	v1.POST("/territory/refresh", h.refreshTerritory)
	v1.POST("/territory/validate", h.validateTerritory)
	v1.POST("/maps/display", h.displayMaps)
	v1.POST("/maps/edit", h.editMap)
	v1.POST("/maps/extract", h.extractMap)

	if _, err := optioncomponent.RegisterRoutes(ginMux{r}, "/v1/territory",
		optioncomponent.WithCountriesPath("/countries"),
		optioncomponent.WithSubdivisionsPath("/subdivisions"),
		optioncomponent.WithRepositories(deps.Repositories),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// ginMux lets the net/http option component register on a gin engine.
type ginMux struct {
	engine *gin.Engine
}

func (m ginMux) Handle(pattern string, handler http.Handler) {
	wrapped := gin.WrapH(handler)
	m.engine.GET(pattern, wrapped)
	m.engine.HEAD(pattern, wrapped)
}

// wantsHTML reports whether the client prefers rendered markup.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}
