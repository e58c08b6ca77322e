package render

import "testing"

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"  Home  ":                         "Home",
		"<b>Cafe</b>":                      "Cafe",
		"<script>alert(1)</script>Harbour": "Harbour",
		"Tom & Jerry":                      "Tom &amp; Jerry",
	}
	for input, want := range cases {
		if got := SanitizeText(input); got != want {
			t.Fatalf("SanitizeText(%q): want %q, got %q", input, want, got)
		}
	}
}

func TestSanitizeMarkupKeepsLayoutAttributes(t *testing.T) {
	input := `<div class="google-map-field-preview" data-delta="0" onclick="steal()"><script>x</script></div>`
	want := `<div class="google-map-field-preview" data-delta="0"></div>`
	if got := SanitizeMarkup(input); got != want {
		t.Fatalf("SanitizeMarkup mismatch\nwant: %q\n got: %q", want, got)
	}
}
