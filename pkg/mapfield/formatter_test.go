package mapfield

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatter_MarkerAndControlsTokens(t *testing.T) {
	cases := []struct {
		name  string
		value *string
		want  string
	}{
		{name: "sentinel", value: String("1"), want: "true"},
		{name: "zero", value: String("0"), want: "false"},
		{name: "unset", value: nil, want: "false"},
		{name: "truthy but not sentinel", value: String("true"), want: "false"},
	}

	f := NewFormatter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Render(MapRecord{Marker: tc.value, Controls: tc.value})
			if got.ShowMarker != tc.want || got.ShowControls != tc.want {
				t.Fatalf("expected %q, got marker=%q controls=%q", tc.want, got.ShowMarker, got.ShowControls)
			}
		})
	}
}

func TestFormatter_SizeDefaultsUseFalsyCheck(t *testing.T) {
	cases := []struct {
		name          string
		width, height *string
		wantW, wantH  string
	}{
		{name: "unset", wantW: "320px", wantH: "200px"},
		{name: "empty", width: String(""), height: String(""), wantW: "320px", wantH: "200px"},
		{name: "zero", width: String("0"), height: String("0"), wantW: "320px", wantH: "200px"},
		{name: "explicit", width: String("50%"), height: String("300px"), wantW: "50%", wantH: "300px"},
	}

	f := NewFormatter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Render(MapRecord{Width: tc.width, Height: tc.height})
			if got.Width != tc.wantW || got.Height != tc.wantH {
				t.Fatalf("expected %s x %s, got %s x %s", tc.wantW, tc.wantH, got.Width, got.Height)
			}
		})
	}
}

func TestFormatter_RenderListKeepsOrderAndDelta(t *testing.T) {
	items := []MapRecord{
		{Name: String("Office"), Lat: String("41.3851"), Lon: String("2.1734"), Zoom: Int(12), Type: String("satellite")},
		{Name: String("Warehouse")},
	}

	got := NewFormatter().RenderList(items)
	want := []DisplayFragment{
		{
			Delta: 0, Name: "Office", Lat: "41.3851", Lon: "2.1734", Zoom: "12", Type: "satellite",
			ShowMarker: "false", ShowControls: "false", Width: "320px", Height: "200px",
			Libraries: []string{LibraryRenderer, LibraryMapsAPI},
		},
		{
			Delta: 1, Name: "Warehouse",
			ShowMarker: "false", ShowControls: "false", Width: "320px", Height: "200px",
			Libraries: []string{LibraryRenderer, LibraryMapsAPI},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}

	if NewFormatter().RenderList(nil) != nil {
		t.Fatalf("expected nil for an empty list")
	}
}
