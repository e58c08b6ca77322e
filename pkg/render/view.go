package render

import (
	"errors"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/model"
)

// ErrEmptyView is returned when a view carries nothing to render.
var ErrEmptyView = errors.New("render: view is empty")

// ViewKind names what a View holds.
type ViewKind string

const (
	ViewTerritory  ViewKind = "territory"
	ViewMapDisplay ViewKind = "map_display"
	ViewMapEdit    ViewKind = "map_edit"
)

// View is the renderable payload: a territory fragment, a list of map
// display fragments or the edit fieldsets of a map field.
type View struct {
	Kind   ViewKind                   `json:"kind"`
	Tree   *model.Tree                `json:"tree,omitempty"`
	Maps   []mapfield.DisplayFragment `json:"maps,omitempty"`
	Fields []model.Field              `json:"fields,omitempty"`
}

// TerritoryView wraps a territory fragment.
func TerritoryView(tree model.Tree) View {
	return View{Kind: ViewTerritory, Tree: &tree}
}

// MapDisplayView wraps formatter output.
func MapDisplayView(fragments []mapfield.DisplayFragment) View {
	return View{Kind: ViewMapDisplay, Maps: fragments}
}

// MapEditView wraps widget fieldsets.
func MapEditView(fields []model.Field) View {
	return View{Kind: ViewMapEdit, Fields: fields}
}

func (v View) validate() error {
	switch v.Kind {
	case ViewTerritory:
		if v.Tree == nil {
			return ErrEmptyView
		}
	case ViewMapDisplay, ViewMapEdit:
	default:
		return ErrEmptyView
	}
	return nil
}
