package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/prompt"
	"github.com/goliatone/go-geoform/pkg/territory"
)

type scriptedDriver struct {
	selects []int
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) { return "", nil }

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, nil
}

// Select answers from the script, then picks the first option.
func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, nil
	}
	idx := d.selects[0]
	d.selects = d.selects[1:]
	return idx, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestRun_TerritoryJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"territory", "-country", "us", "-parents", "zone,territory"}, &stdout, &stderr, nil)
	if err != nil {
		t.Fatalf("run: %v (%s)", err, stderr.String())
	}

	var result territory.Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Tree.ID != "zone-territory-ajax-wrapper" {
		t.Fatalf("unexpected tree id %q", result.Tree.ID)
	}
	if result.Value.CountryCode != "US" {
		t.Fatalf("country not applied: %+v", result.Value)
	}
}

func TestRun_TerritoryHTML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"territory", "-country", "US", "-format", "html"}, &stdout, &stderr, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), `<option value="US" selected>United States</option>`) {
		t.Fatalf("expected selected country in output:\n%s", stdout.String())
	}
}

func TestRun_TerritoryInteractive(t *testing.T) {
	var stdout, stderr bytes.Buffer
	driver := &scriptedDriver{selects: []int{1}}
	err := run(context.Background(), []string{"territory", "-required", "-interactive", "-country", "FR"}, &stdout, &stderr, driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got territory.Territory
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout.String())
	}
	if got.CountryCode != "AU" {
		t.Fatalf("expected the second country, got %+v", got)
	}
}

func TestRun_Map(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(`[{"name":"Office","lat":"1","lon":"2","marker":"1"},{"controls":"1"}]`), 0o600); err != nil {
		t.Fatalf("write items: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"map", "-item", path}, &stdout, &stderr, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	var out struct {
		Data []mapfield.DisplayFragment `json:"data"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := []string{out.Data[0].ShowMarker, out.Data[0].ShowControls, out.Data[1].ShowMarker, out.Data[1].ShowControls}
	if diff := cmp.Diff([]string{"true", "false", "false", "true"}, got); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}

	stdout.Reset()
	if err := run(context.Background(), []string{"map", "-item", path, "-format", "html"}, &stdout, &stderr, nil); err != nil {
		t.Fatalf("run html: %v", err)
	}
	if !strings.Contains(stdout.String(), `id="google-map-field-1"`) {
		t.Fatalf("expected second map container:\n%s", stdout.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	for _, args := range [][]string{nil, {"unknown"}, {"map"}} {
		if err := run(context.Background(), args, &stdout, &stderr, nil); !errors.Is(err, errUsage) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}
