package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/address/memory"
	"github.com/goliatone/go-geoform/pkg/territory"
)

type stubDriver struct {
	selectIdx []int
	confirm   []bool
	inputs    []string

	selects  []SelectConfig
	confirms []ConfirmConfig
	prompts  []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.confirms = append(s.confirms, cfg)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) Info(context.Context, string) error { return nil }

func newTestCascade(t *testing.T, driver Driver, options ...CascadeOption) *Cascade {
	t.Helper()

	store, err := memory.New(memory.Dataset{
		Countries: []address.Country{
			{Code: "US", Name: "United States"},
			{Code: "BR", Name: "Brazil"},
			{Code: "FR", Name: "France"},
		},
		Formats: map[string]address.Format{
			"US": {
				SubdivisionDepth:       1,
				UsedFields:             []address.Field{address.FieldAdministrativeArea, address.FieldPostalCode},
				AdministrativeAreaType: "state",
			},
			"BR": {
				SubdivisionDepth:       2,
				UsedFields:             []address.Field{address.FieldAdministrativeArea, address.FieldLocality},
				AdministrativeAreaType: "state",
				LocalityType:           "city",
			},
			"FR": {
				UsedFields: []address.Field{address.FieldLocality, address.FieldPostalCode},
			},
		},
		Subdivisions: []memory.SubdivisionList{
			{Parents: []string{"US"}, Items: []address.Subdivision{{Code: "CA", Name: "California"}}},
			{Parents: []string{"BR"}, Items: []address.Subdivision{{Code: "SC", Name: "Santa Catarina"}, {Code: "SP", Name: "São Paulo"}}},
			{Parents: []string{"BR", "SC"}, Items: []address.Subdivision{{Code: "Florianópolis", Name: "Florianópolis"}, {Code: "Joinville", Name: "Joinville"}}},
		},
	})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	builder, err := territory.New(store.Repositories())
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	cascade, err := NewCascade(builder, driver, options...)
	if err != nil {
		t.Fatalf("new cascade: %v", err)
	}
	return cascade
}

func TestCascade_WalksEveryLevel(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{2, 1, 2}}
	cascade := newTestCascade(t, driver)

	got, err := cascade.Run(context.Background(), territory.Territory{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := territory.Territory{CountryCode: "BR", AdministrativeArea: "SC", Locality: "Joinville"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("territory mismatch (-want +got):\n%s", diff)
	}

	var messages []string
	for _, cfg := range driver.selects {
		messages = append(messages, cfg.Message)
	}
	if diff := cmp.Diff([]string{"Country", "State", "City"}, messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	wantOptions := []string{"- None -", "United States", "Brazil", "France"}
	if diff := cmp.Diff(wantOptions, driver.selects[0].Options); diff != "" {
		t.Fatalf("country options mismatch (-want +got):\n%s", diff)
	}
	if len(driver.confirms) != 0 {
		t.Fatalf("BR has no postal code, got confirms %v", driver.confirms)
	}
}

func TestCascade_PostalPatterns(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 0},
		confirm:   []bool{true},
		inputs:    []string{" 90210 ", ""},
	}
	cascade := newTestCascade(t, driver, WithRequired(true), WithParents("zone", "territory"))

	got, err := cascade.Run(context.Background(), territory.Territory{CountryCode: "US", ExcludedPostalCodes: "10001"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := territory.Territory{CountryCode: "US", IncludedPostalCodes: "90210"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("territory mismatch (-want +got):\n%s", diff)
	}
	if !driver.confirms[0].Default {
		t.Fatalf("toggle should default to checked when a pattern is stored")
	}
	if driver.prompts[1].Default != "10001" {
		t.Fatalf("excluded pattern should be offered as default, got %q", driver.prompts[1].Default)
	}
	if driver.selects[0].Options[0] != "United States" {
		t.Fatalf("required country must not offer an empty option: %v", driver.selects[0].Options)
	}
}

func TestCascade_UncheckedToggleDropsPatterns(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 0}, confirm: []bool{false}}
	cascade := newTestCascade(t, driver)

	got, err := cascade.Run(context.Background(), territory.Territory{CountryCode: "US", IncludedPostalCodes: "9*"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(territory.Territory{CountryCode: "US"}, got); diff != "" {
		t.Fatalf("territory mismatch (-want +got):\n%s", diff)
	}
}

func TestCascade_CountryChangeClearsSubdivisions(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{3}, confirm: []bool{false}}
	cascade := newTestCascade(t, driver)

	got, err := cascade.Run(context.Background(), territory.Territory{
		CountryCode:        "BR",
		AdministrativeArea: "SC",
		Locality:           "Florianópolis",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(territory.Territory{CountryCode: "FR"}, got); diff != "" {
		t.Fatalf("territory mismatch (-want +got):\n%s", diff)
	}
	if driver.selects[0].DefaultIndex != 2 {
		t.Fatalf("stored country should be preselected, got index %d", driver.selects[0].DefaultIndex)
	}
}

func TestCascade_PropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{}
	cascade := newTestCascade(t, driver)

	if _, err := cascade.Run(context.Background(), territory.Territory{}); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestCascade_OutOfRangeSelection(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{9}}
	cascade := newTestCascade(t, driver)

	if _, err := cascade.Run(context.Background(), territory.Territory{}); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewCascade_RequiresDependencies(t *testing.T) {
	if _, err := NewCascade(nil, &stubDriver{}); !errors.Is(err, ErrMissingBuilder) {
		t.Fatalf("expected ErrMissingBuilder, got %v", err)
	}
	store, err := memory.Default()
	if err != nil {
		t.Fatalf("default store: %v", err)
	}
	builder, err := territory.New(store.Repositories())
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if _, err := NewCascade(builder, nil); !errors.Is(err, ErrMissingDriver) {
		t.Fatalf("expected ErrMissingDriver, got %v", err)
	}
}
