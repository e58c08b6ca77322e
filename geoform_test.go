package geoform

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-geoform/pkg/mapfield"
)

func TestEmbeddedTemplatesContainPartials(t *testing.T) {
	for _, name := range []string{"territory.tpl", "field.tpl", "map_display.tpl", "map_edit.tpl"} {
		if _, err := fs.ReadFile(EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestGenerateTerritoryHTML(t *testing.T) {
	html, err := GenerateTerritoryHTML(context.Background(), TerritoryRequest{
		Parents: []string{"territory"},
		Default: Territory{CountryCode: "BR", AdministrativeArea: "SC"},
	}, RenderOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, `<option value="SC" selected>`) {
		t.Fatalf("expected the stored state to be selected:\n%s", out)
	}
	if !strings.Contains(out, `name="territory[locality]"`) {
		t.Fatalf("expected a city select for a depth 2 country:\n%s", out)
	}
}

func TestGenerateMapHTML(t *testing.T) {
	ctx := context.Background()
	items := []MapRecord{{Name: mapfield.String("Office"), Zoom: mapfield.Int(4)}}

	display, err := GenerateMapDisplayHTML(ctx, items, RenderOptions{})
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if !strings.Contains(string(display), `data-zoom="4"`) {
		t.Fatalf("expected zoom in display output:\n%s", display)
	}

	edit, err := GenerateMapEditHTML(ctx, "field_map", items, true, RenderOptions{})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(string(edit), `id="edit-field-map-1"`) {
		t.Fatalf("expected a trailing empty item:\n%s", edit)
	}

	if _, err := GenerateMapEditHTML(ctx, "", items, false, RenderOptions{}); !errors.Is(err, mapfield.ErrMissingFieldName) {
		t.Fatalf("expected ErrMissingFieldName, got %v", err)
	}
}
