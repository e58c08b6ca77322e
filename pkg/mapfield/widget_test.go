package mapfield

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoform/pkg/model"
)

func mustWidget(t *testing.T) *Widget {
	t.Helper()
	w, err := NewWidget("field_location")
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}
	return w
}

func TestNewWidget_RequiresFieldName(t *testing.T) {
	if _, err := NewWidget("  "); !errors.Is(err, ErrMissingFieldName) {
		t.Fatalf("expected ErrMissingFieldName, got %v", err)
	}
}

func TestWidget_BuildEditFormStructure(t *testing.T) {
	form := mustWidget(t).BuildEditForm(MapRecord{}, 2)

	if form.Type != model.FieldTypeFieldset || form.Title != "Map" {
		t.Fatalf("unexpected container: %#v", form)
	}
	if diff := cmp.Diff([]string{LibraryWidgetRenderer, LibraryMapsAPI}, form.Libraries); diff != "" {
		t.Fatalf("libraries mismatch (-want +got):\n%s", diff)
	}

	var keys []string
	for _, child := range form.Children {
		keys = append(keys, child.Key)
	}
	wantKeys := []string{"preview", "intro", "name", "lat", "lon", "zoom", "type", "width", "height", "marker", "controls", "actions"}
	if diff := cmp.Diff(wantKeys, keys); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	preview, _ := form.Child("preview")
	if preview.Markup != `<div class="google-map-field-preview" data-delta="2"></div>` {
		t.Fatalf("unexpected preview markup %q", preview.Markup)
	}

	lat, _ := form.Child("lat")
	wantLat := model.Field{
		Key:        "lat",
		Name:       "field_location[2][lat]",
		ID:         "edit-field-location-2-lat",
		Type:       model.FieldTypeTextfield,
		Title:      "Latitude",
		Size:       18,
		Classes:    []string{"google-map-field-watch-change"},
		Attributes: map[string]string{"data-lat-delta": "2"},
	}
	if diff := cmp.Diff(wantLat, lat); diff != "" {
		t.Fatalf("lat mismatch (-want +got):\n%s", diff)
	}

	lon, _ := form.Child("lon")
	if lon.Suffix != "</div>" {
		t.Fatalf("expected lon to close the left column, got %q", lon.Suffix)
	}
	name, _ := form.Child("name")
	if name.Size != 32 || name.Attributes["data-name-delta"] != "2" {
		t.Fatalf("unexpected name field: %#v", name)
	}

	actions, _ := form.Child("actions")
	open, _ := actions.Child("open_map")
	clearBtn, _ := actions.Child("clear_fields")
	if open.ID != "map_setter_2" || *open.Value != "Set Map" {
		t.Fatalf("unexpected open button: %#v", open)
	}
	if clearBtn.ID != "clear_fields_2" || *clearBtn.Value != "Clear" || clearBtn.Classes[0] != "google-map-field-clear" {
		t.Fatalf("unexpected clear button: %#v", clearBtn)
	}
}

func TestWidget_HiddenDefaultsUseNullCheck(t *testing.T) {
	w := mustWidget(t)

	defaults := w.BuildEditForm(MapRecord{}, 0)
	want := map[string]string{"zoom": "9", "type": "roadmap", "width": "100%", "height": "450px", "marker": "1", "controls": "1"}
	for key, value := range want {
		field, ok := defaults.Child(key)
		if !ok {
			t.Fatalf("missing %s", key)
		}
		if field.Type != model.FieldTypeHidden || field.Default != value {
			t.Fatalf("%s: expected hidden default %q, got %#v", key, value, field.Default)
		}
		if field.Attributes["data-"+key+"-delta"] != "0" {
			t.Fatalf("%s: missing delta attribute", key)
		}
	}

	stored := w.BuildEditForm(MapRecord{Zoom: Int(0), Width: String(""), Marker: String("0")}, 0)
	for key, value := range map[string]string{"zoom": "0", "width": "", "marker": "0"} {
		field, _ := stored.Child(key)
		if field.Default != value {
			t.Fatalf("%s: stored value must win over the default, got %#v", key, field.Default)
		}
	}

	display := NewFormatter().Render(MapRecord{Width: String("")})
	if display.Width != "320px" {
		t.Fatalf("formatter must still treat empty width as unset, got %q", display.Width)
	}
}

func TestWidget_BuildEditForms(t *testing.T) {
	w := mustWidget(t)
	forms := w.BuildEditForms([]MapRecord{{Name: String("A")}}, true)
	if len(forms) != 2 {
		t.Fatalf("expected item plus empty slot, got %d", len(forms))
	}
	name, _ := forms[1].Child("name")
	if name.Name != "field_location[1][name]" || name.Default != nil {
		t.Fatalf("unexpected trailing item: %#v", name)
	}
}

func TestWidget_Extract(t *testing.T) {
	w := mustWidget(t)

	got, err := w.Extract(1, map[string]string{
		"field_location[1][name]":  "  HQ ",
		"field_location[1][lat]":   "41.3851",
		"field_location[1][lon]":   "2.1734",
		"field_location[1][zoom]":  "14",
		"field_location[1][width]": "",
		"field_location[0][type]":  "satellite",
		"marker":                   "1",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := MapRecord{
		Name:   String("HQ"),
		Lat:    String("41.3851"),
		Lon:    String("2.1734"),
		Zoom:   Int(14),
		Width:  String(""),
		Marker: String("1"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

}

func TestWidget_ExtractZoom(t *testing.T) {
	w := mustWidget(t)

	rec, err := w.Extract(0, map[string]string{"zoom": "  "})
	if err != nil {
		t.Fatalf("blank zoom: %v", err)
	}
	if rec.Zoom != nil {
		t.Fatalf("expected blank zoom to stay unset, got %d", *rec.Zoom)
	}

	_, err = w.Extract(0, map[string]string{"field_location[0][zoom]": "far"})
	if !errors.Is(err, ErrInvalidZoom) {
		t.Fatalf("expected ErrInvalidZoom, got %v", err)
	}
	if !strings.Contains(err.Error(), `"far"`) {
		t.Fatalf("expected submitted value in error, got %q", err)
	}
}

func TestWidget_RoundTripThroughEditForm(t *testing.T) {
	w := mustWidget(t)
	item := MapRecord{Name: String("Depot"), Lat: String("-33.86"), Lon: String("151.2"), Zoom: Int(11)}

	form := w.BuildEditForm(item, 3)
	values := map[string]string{}
	for _, child := range form.Children {
		if child.Name == "" {
			continue
		}
		if value, ok := child.Default.(string); ok {
			values[child.Name] = value
		}
	}

	got, err := w.Extract(3, values)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if *got.Name != "Depot" || *got.Zoom != 11 || *got.Type != "roadmap" || *got.Marker != "1" {
		t.Fatalf("unexpected round trip: %#v", got)
	}
}
