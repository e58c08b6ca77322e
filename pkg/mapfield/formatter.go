package mapfield

import "strconv"

const (
	defaultDisplayWidth  = "320px"
	defaultDisplayHeight = "200px"
)

// DisplayFragment is the read-only projection of a MapRecord handed to the
// display template.
type DisplayFragment struct {
	Delta        int      `json:"delta"`
	Name         string   `json:"name"`
	Lat          string   `json:"lat"`
	Lon          string   `json:"lon"`
	Zoom         string   `json:"zoom"`
	Type         string   `json:"type"`
	ShowMarker   string   `json:"showMarker"`
	ShowControls string   `json:"showControls"`
	Width        string   `json:"width"`
	Height       string   `json:"height"`
	Libraries    []string `json:"libraries"`
}

// Formatter projects stored records into display fragments. The zero value is
// ready to use.
type Formatter struct{}

// NewFormatter returns a Formatter.
func NewFormatter() Formatter { return Formatter{} }

// Render projects a single item. Marker and controls become "true" only for the
// "1" sentinel; an unset or falsy width/height ("" or "0") takes the display
// default.
func (Formatter) Render(item MapRecord) DisplayFragment {
	fragment := DisplayFragment{
		Name:         deref(item.Name),
		Lat:          deref(item.Lat),
		Lon:          deref(item.Lon),
		Type:         deref(item.Type),
		ShowMarker:   flagToken(item.Marker),
		ShowControls: flagToken(item.Controls),
		Width:        orDefault(item.Width, defaultDisplayWidth),
		Height:       orDefault(item.Height, defaultDisplayHeight),
		Libraries:    []string{LibraryRenderer, LibraryMapsAPI},
	}
	if item.Zoom != nil {
		fragment.Zoom = strconv.Itoa(*item.Zoom)
	}
	return fragment
}

// RenderList renders items in order, setting each fragment's Delta to its
// position.
func (f Formatter) RenderList(items []MapRecord) []DisplayFragment {
	if len(items) == 0 {
		return nil
	}
	out := make([]DisplayFragment, 0, len(items))
	for delta, item := range items {
		fragment := f.Render(item)
		fragment.Delta = delta
		out = append(out, fragment)
	}
	return out
}

func flagToken(value *string) string {
	if value != nil && *value == "1" {
		return "true"
	}
	return "false"
}

func orDefault(value *string, fallback string) string {
	if value == nil || *value == "" || *value == "0" {
		return fallback
	}
	return *value
}
