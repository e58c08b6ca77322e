package mapfield_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/testsupport"
)

func TestFormatter_RenderListGolden(t *testing.T) {
	var items []mapfield.MapRecord
	testsupport.MustLoadJSON(t, filepath.Join("testdata", "items.json"), &items)

	got := mapfield.NewFormatter().RenderList(items)

	goldenPath := filepath.Join("testdata", "display.golden.json")
	testsupport.WriteGolden(t, goldenPath, got)

	var want []mapfield.DisplayFragment
	testsupport.MustLoadJSON(t, goldenPath, &want)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("display fragments mismatch (-want +got):\n%s", diff)
	}
}
