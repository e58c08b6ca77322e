package mapfield

import "errors"

// Keys of the map record properties, also used as input keys by the widget.
const (
	KeyName     = "name"
	KeyLat      = "lat"
	KeyLon      = "lon"
	KeyZoom     = "zoom"
	KeyType     = "type"
	KeyMarker   = "marker"
	KeyControls = "controls"
	KeyWidth    = "width"
	KeyHeight   = "height"
)

// Client libraries attached to rendered fragments.
const (
	LibraryRenderer       = "google_map_field/google-map-field-renderer"
	LibraryWidgetRenderer = "google_map_field/google-map-field-widget-renderer"
	LibraryMapsAPI        = "google_map_field/google-map-apis"
)

// ErrMissingFieldName is returned when a widget is created without the field
// name its inputs are nested under.
var ErrMissingFieldName = errors.New("mapfield: field name is required")

// ErrInvalidZoom is returned by Extract when a submitted zoom is not an
// integer.
var ErrInvalidZoom = errors.New("mapfield: zoom must be an integer")

// MapRecord is one stored map item. Every property is optional; nil means the
// value was never set. Coordinates are kept as strings so stored precision is
// never altered. Marker and Controls hold the "1" sentinel when enabled.
type MapRecord struct {
	Name     *string `json:"name,omitempty"`
	Lat      *string `json:"lat,omitempty"`
	Lon      *string `json:"lon,omitempty"`
	Zoom     *int    `json:"zoom,omitempty"`
	Type     *string `json:"type,omitempty"`
	Marker   *string `json:"marker,omitempty"`
	Controls *string `json:"controls,omitempty"`
	Width    *string `json:"width,omitempty"`
	Height   *string `json:"height,omitempty"`
}

// String returns a pointer to value, for building records in code.
func String(value string) *string { return &value }

// Int returns a pointer to value.
func Int(value int) *int { return &value }

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
