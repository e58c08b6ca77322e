package mapfield

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-geoform/pkg/model"
)

const (
	defaultEditZoom     = 9
	defaultEditType     = "roadmap"
	defaultEditWidth    = "100%"
	defaultEditHeight   = "450px"
	defaultEditMarker   = "1"
	defaultEditControls = "1"

	classWatchChange = "google-map-field-watch-change"
)

// Widget builds the edit form of a map field and reads submitted values back.
// Inputs are nested as <field>[<delta>][<key>] so several items can share a
// form.
type Widget struct {
	fieldName string
}

// NewWidget returns a widget for the field stored under fieldName.
func NewWidget(fieldName string) (*Widget, error) {
	fieldName = strings.TrimSpace(fieldName)
	if fieldName == "" {
		return nil, ErrMissingFieldName
	}
	return &Widget{fieldName: fieldName}, nil
}

// FieldName returns the field the widget's inputs are nested under.
func (w *Widget) FieldName() string { return w.fieldName }

// InputName returns the submitted name of key for the item at delta.
func (w *Widget) InputName(delta int, key string) string {
	return model.InputName(w.parents(delta), key)
}

// BuildEditForm returns the fieldset editing item at delta. Hidden inputs fall
// back to their defaults only when the stored value is unset; an empty string
// is kept as is.
func (w *Widget) BuildEditForm(item MapRecord, delta int) model.Field {
	d := strconv.Itoa(delta)

	zoom := strconv.Itoa(defaultEditZoom)
	if item.Zoom != nil {
		zoom = strconv.Itoa(*item.Zoom)
	}

	fieldset := model.Field{
		Key:       strconv.Itoa(delta),
		Name:      model.InputName(w.parents(delta), ""),
		ID:        w.id(delta, ""),
		Type:      model.FieldTypeFieldset,
		Title:     "Map",
		Libraries: []string{LibraryWidgetRenderer, LibraryMapsAPI},
	}
	fieldset.Children = []model.Field{
		{
			Key:    "preview",
			Type:   model.FieldTypeItem,
			Title:  "Preview",
			Markup: `<div class="google-map-field-preview" data-delta="` + d + `"></div>`,
			Prefix: `<div class="google-map-field-widget right">`,
			Suffix: `</div>`,
		},
		{
			Key:    "intro",
			Type:   model.FieldTypeMarkup,
			Markup: `Use the "Set Map" button for more options.`,
			Prefix: `<div class="google-map-field-widget left">`,
		},
		w.textfield(delta, KeyName, "Map Name", 32, item.Name),
		w.textfield(delta, KeyLat, "Latitude", 18, item.Lat, classWatchChange),
		withSuffix(w.textfield(delta, KeyLon, "Longitude", 18, item.Lon, classWatchChange), `</div>`),
		w.hidden(delta, KeyZoom, zoom),
		w.hidden(delta, KeyType, orUnset(item.Type, defaultEditType)),
		w.hidden(delta, KeyWidth, orUnset(item.Width, defaultEditWidth)),
		w.hidden(delta, KeyHeight, orUnset(item.Height, defaultEditHeight)),
		w.hidden(delta, KeyMarker, orUnset(item.Marker, defaultEditMarker)),
		w.hidden(delta, KeyControls, orUnset(item.Controls, defaultEditControls)),
		{
			Key:     "actions",
			Type:    model.FieldTypeActions,
			Classes: []string{"field-map-actions"},
			Children: []model.Field{
				{
					Key:        "open_map",
					ID:         "map_setter_" + d,
					Type:       model.FieldTypeButton,
					Value:      model.StringPtr("Set Map"),
					Attributes: map[string]string{"data-delta": d},
				},
				{
					Key:        "clear_fields",
					ID:         "clear_fields_" + d,
					Type:       model.FieldTypeButton,
					Value:      model.StringPtr("Clear"),
					Classes:    []string{"google-map-field-clear"},
					Attributes: map[string]string{"data-delta": d},
				},
			},
		},
	}
	return fieldset
}

// BuildEditForms returns one fieldset per item, plus an empty trailing item
// when extra is true.
func (w *Widget) BuildEditForms(items []MapRecord, extra bool) []model.Field {
	out := make([]model.Field, 0, len(items)+1)
	for delta, item := range items {
		out = append(out, w.BuildEditForm(item, delta))
	}
	if extra {
		out = append(out, w.BuildEditForm(MapRecord{}, len(items)))
	}
	return out
}

// Extract reads the submitted values of the item at delta. values may be keyed
// by full input name or by bare property key. Inputs that were not submitted
// stay nil; submitted values are trimmed. A blank zoom is treated as unset and
// any other non-integer zoom fails with ErrInvalidZoom.
func (w *Widget) Extract(delta int, values map[string]string) (MapRecord, error) {
	lookup := func(key string) *string {
		value, ok := values[w.InputName(delta, key)]
		if !ok {
			value, ok = values[key]
		}
		if !ok {
			return nil
		}
		trimmed := strings.TrimSpace(value)
		return &trimmed
	}

	record := MapRecord{
		Name:     lookup(KeyName),
		Lat:      lookup(KeyLat),
		Lon:      lookup(KeyLon),
		Type:     lookup(KeyType),
		Marker:   lookup(KeyMarker),
		Controls: lookup(KeyControls),
		Width:    lookup(KeyWidth),
		Height:   lookup(KeyHeight),
	}
	if raw := lookup(KeyZoom); raw != nil && *raw != "" {
		zoom, err := strconv.Atoi(*raw)
		if err != nil {
			return MapRecord{}, fmt.Errorf("%w, got %q", ErrInvalidZoom, *raw)
		}
		record.Zoom = &zoom
	}
	return record, nil
}

func (w *Widget) parents(delta int) []string {
	return []string{w.fieldName, strconv.Itoa(delta)}
}

func (w *Widget) id(delta int, key string) string {
	segments := []string{"edit", w.fieldName, strconv.Itoa(delta)}
	if key != "" {
		segments = append(segments, key)
	}
	return model.CleanID(strings.Join(segments, "-"))
}

func (w *Widget) textfield(delta int, key, title string, size int, value *string, classes ...string) model.Field {
	field := model.Field{
		Key:        key,
		Name:       w.InputName(delta, key),
		ID:         w.id(delta, key),
		Type:       model.FieldTypeTextfield,
		Title:      title,
		Size:       size,
		Attributes: map[string]string{"data-" + key + "-delta": strconv.Itoa(delta)},
	}
	if value != nil {
		field.Default = *value
	}
	if len(classes) > 0 {
		field.Classes = append([]string(nil), classes...)
	}
	return field
}

func (w *Widget) hidden(delta int, key, value string) model.Field {
	return model.Field{
		Key:        key,
		Name:       w.InputName(delta, key),
		ID:         w.id(delta, key),
		Type:       model.FieldTypeHidden,
		Default:    value,
		Attributes: map[string]string{"data-" + key + "-delta": strconv.Itoa(delta)},
	}
}

func withSuffix(field model.Field, suffix string) model.Field {
	field.Suffix = suffix
	return field
}

func orUnset(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
