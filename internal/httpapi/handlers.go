package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

// TriggerInputName is the hidden input carrying the name of the element that
// caused a refresh.
const TriggerInputName = "_triggering_element_name"

var defaultParents = []string{"territory"}

type handlers struct {
	deps Dependencies
}

type territoryRequest struct {
	Parents  []string              `json:"parents"`
	Required bool                  `json:"required"`
	Default  territory.Territory   `json:"default"`
	Input    *territory.Submission `json:"input"`
	Trigger  string                `json:"trigger"`
	Errors   map[string][]string   `json:"errors"`
	Hidden   map[string]string     `json:"hidden"`
}

func (r territoryRequest) build() territory.Request {
	parents := r.Parents
	if len(parents) == 0 {
		parents = defaultParents
	}
	return territory.Request{
		Parents:  parents,
		Required: r.Required,
		Default:  r.Default,
		Input:    r.Input,
		Trigger:  r.Trigger,
	}
}

func (r territoryRequest) options(tree model.Tree, hidden ...render.HiddenField) render.RenderOptions {
	return render.RenderOptions{
		Errors: render.MapErrorPayload(tree.Fields, r.Errors).Errors(),
		Hidden: render.MergeHiddenFields(r.Hidden, hidden...),
	}
}

func (h *handlers) buildTerritory(c *gin.Context) {
	var req territoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	result, err := h.deps.Builder.Build(c.Request.Context(), req.build())
	h.deps.Metrics.ObserveTerritory("build", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if wantsHTML(c) {
		h.render(c, render.TerritoryView(result.Tree), req.options(result.Tree))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) refreshTerritory(c *gin.Context) {
	var req territoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	fragment, err := h.deps.Builder.Refresh(c.Request.Context(), req.build())
	h.deps.Metrics.ObserveTerritory("refresh", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if wantsHTML(c) {
		options := req.options(fragment.Tree, render.TriggerField(TriggerInputName, req.Trigger))
		h.render(c, render.TerritoryView(fragment.Tree), options)
		return
	}
	c.JSON(http.StatusOK, fragment)
}

func (h *handlers) validateTerritory(c *gin.Context) {
	var sub territory.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	c.JSON(http.StatusOK, territory.Validate(sub))
}

type mapDisplayRequest struct {
	Items []mapfield.MapRecord `json:"items"`
}

func (h *handlers) displayMaps(c *gin.Context) {
	var req mapDisplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	fragments := h.deps.Formatter.RenderList(req.Items)
	if fragments == nil {
		fragments = []mapfield.DisplayFragment{}
	}
	h.deps.Metrics.ObserveMapItems("display", len(fragments))

	if wantsHTML(c) {
		h.render(c, render.MapDisplayView(fragments), render.RenderOptions{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fragments})
}

type mapEditRequest struct {
	FieldName string              `json:"field_name"`
	Delta     int                 `json:"delta"`
	Item      mapfield.MapRecord  `json:"item"`
	Errors    map[string][]string `json:"errors"`
}

func (h *handlers) editMap(c *gin.Context) {
	var req mapEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	widget, err := newWidget(req.FieldName, req.Delta)
	if err != nil {
		abortWithError(c, err)
		return
	}

	field := widget.BuildEditForm(req.Item, req.Delta)
	h.deps.Metrics.ObserveMapItems("edit", 1)

	if wantsHTML(c) {
		fields := []model.Field{field}
		options := render.RenderOptions{Errors: render.MapErrorPayload(fields, req.Errors).Errors()}
		h.render(c, render.MapEditView(fields), options)
		return
	}
	c.JSON(http.StatusOK, field)
}

type mapExtractRequest struct {
	FieldName string            `json:"field_name"`
	Delta     int               `json:"delta"`
	Values    map[string]string `json:"values"`
}

func (h *handlers) extractMap(c *gin.Context) {
	var req mapExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	widget, err := newWidget(req.FieldName, req.Delta)
	if err != nil {
		abortWithError(c, err)
		return
	}
	record, err := widget.Extract(req.Delta, req.Values)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.deps.Metrics.ObserveMapItems("extract", 1)
	c.JSON(http.StatusOK, record)
}

func newWidget(fieldName string, delta int) (*mapfield.Widget, error) {
	if delta < 0 {
		return nil, badRequest(errors.New("httpapi: delta must not be negative"))
	}
	return mapfield.NewWidget(fieldName)
}

// render writes view through the html renderer using the theme named by the
// request, falling back to the configured default.
func (h *handlers) render(c *gin.Context, view render.View, options render.RenderOptions) {
	renderer, err := h.deps.Renderers.Get("html")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.deps.Themes != nil {
		name := strings.TrimSpace(c.Query("theme"))
		variant := strings.TrimSpace(c.Query("variant"))
		if name == "" {
			name, variant = h.deps.DefaultTheme, firstNonEmpty(variant, h.deps.DefaultVariant)
		}
		cfg, err := render.ResolveTheme(h.deps.Themes, name, variant)
		if err != nil {
			abortWithError(c, err)
			return
		}
		options.Theme = cfg
	}

	out, err := renderer.Render(c.Request.Context(), view, options)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, renderer.ContentType(), out)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
