package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	fields := []model.Field{
		{Key: "country_code"},
		{Key: "administrative_area"},
		{
			Key: "0",
			Children: []model.Field{
				{Key: "lat"},
				{Key: "actions", Children: []model.Field{{Key: "open_map"}}},
			},
		},
	}

	payload := map[string][]string{
		"/zone/territory/country_code":   {"Country is required", " Country is required "},
		"body.administrative_area":       {"Unknown state"},
		"field_map[0][lat]":              {"Latitude out of range"},
		"#/field_map/0/actions/open_map": {"Map not set"},
		"non_field_errors":               {"Form level error"},
		"request/body/unknown-field":     {"Falls back to form errors"},
		"":                               {"  "},
	}

	mapped := render.MapErrorPayload(fields, payload)

	wantFields := map[string][]string{
		"country_code":        {"Country is required"},
		"administrative_area": {"Unknown state"},
		"0.lat":               {"Latitude out of range"},
		"0.actions.open_map":  {"Map not set"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Falls back to form errors", "Form level error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	flat := mapped.Errors()
	if len(flat[render.FormErrorsKey]) != 2 {
		t.Fatalf("expected form errors under %q, got %v", render.FormErrorsKey, flat)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(nil, nil)
	if mapped.Fields != nil || mapped.Form != nil || mapped.Errors() != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedHiddenFields(t *testing.T) {
	fields := render.MergeHiddenFields(
		map[string]string{" form_id ": "zone_form", "": "dropped"},
		render.CSRFToken("form_token", "abc"),
		render.TriggerField("_triggering_element_name", "territory[country_code]"),
		render.Hidden("form_id", "override"),
	)

	want := []render.HiddenField{
		{Name: "_triggering_element_name", Value: "territory[country_code]"},
		{Name: "form_id", Value: "override"},
		{Name: "form_token", Value: "abc"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(fields)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if render.SortedHiddenFields(nil) != nil {
		t.Fatalf("expected nil for no fields")
	}
}
