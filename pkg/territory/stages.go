package territory

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/visibility"
)

const postalCodeDescription = `A regular expression ("/(35|38)[0-9]{3}/") or comma-separated list, including ranges ("98, 100:200")`

// state flows through the pipeline by value. Stages never mutate what they
// receive; the tree helpers return copies.
type state struct {
	req       Request
	value     Submission
	input     *Submission
	countries []address.Country
	format    *address.Format
	tree      model.Tree
}

type stage func(ctx context.Context, b *Builder, st state) (state, error)

var pipeline = []stage{
	resolveCountry,
	baseFields,
	subdivisionFields,
	postalFields,
	clearOnCountryChange,
}

func newState(req Request) state {
	st := state{
		req: req,
		tree: model.Tree{
			ID:      FragmentID(req.Parents),
			Parents: append([]string(nil), req.Parents...),
		},
	}
	if req.Input != nil {
		input := *req.Input
		st.input = &input
		st.value = input
		return st
	}
	st.value = Submission{
		Territory:         req.Default,
		LimitByPostalCode: req.Default.HasPostalPatterns(),
	}
	return st
}

func resolveCountry(ctx context.Context, b *Builder, st state) (state, error) {
	countries, err := b.repos.Countries.List(ctx)
	if err != nil {
		return st, fmt.Errorf("territory: list countries: %w", err)
	}
	st.countries = countries
	if st.value.CountryCode == "" && st.req.Required && len(countries) > 0 {
		st.value.Territory = st.value.With(KeyCountryCode, countries[0].Code)
	}
	return st, nil
}

func baseFields(_ context.Context, b *Builder, st state) (state, error) {
	field := b.field(st, KeyCountryCode, model.FieldTypeSelect, st.value.CountryCode)
	field.Options = make([]model.Option, 0, len(st.countries))
	for _, country := range st.countries {
		field.Options = append(field.Options, model.Option{Value: country.Code, Label: country.Name})
	}
	field.Required = st.req.Required
	field.Weight = -100
	field.Ajax = b.ajax(st)
	if !st.req.Required {
		field.EmptyOption = &model.Option{Value: "", Label: "- None -"}
	}
	st.tree = st.tree.With(field)
	return st, nil
}

func subdivisionFields(ctx context.Context, b *Builder, st state) (state, error) {
	if st.value.CountryCode == "" {
		return st, nil
	}
	format, err := b.repos.Formats.Get(ctx, st.value.CountryCode)
	if err != nil {
		return st, fmt.Errorf("territory: get address format %q: %w", st.value.CountryCode, err)
	}
	st.format = &format

	depth := format.SubdivisionDepth
	if depth < 1 {
		return st, nil
	}
	labels := b.labeler(format)
	parentKey := KeyCountryCode
	var chain []string
	for level, used := range format.UsedSubdivisionFields() {
		if level >= depth {
			break
		}
		parentValue := st.value.Get(parentKey)
		if parentValue == "" {
			break
		}
		chain = append(chain, parentValue)
		list, err := b.repos.Subdivisions.List(ctx, append([]string(nil), chain...))
		if err != nil {
			return st, fmt.Errorf("territory: list subdivisions %q: %w", chain, err)
		}
		if len(list) == 0 {
			break
		}

		key := subdivisionKey(used)
		field := b.field(st, key, model.FieldTypeSelect, st.value.Get(key))
		field.Title = labels[used]
		field.EmptyOption = &model.Option{Value: "", Label: "- All -"}
		field.Options = make([]model.Option, 0, len(list))
		for _, item := range list {
			field.Options = append(field.Options, model.Option{Value: item.Code, Label: item.Name})
		}
		if level+1 < depth {
			field.Ajax = b.ajax(st)
		}
		st.tree = st.tree.With(field)
		parentKey = key
	}
	return st, nil
}

func postalFields(_ context.Context, b *Builder, st state) (state, error) {
	if st.format == nil || !st.format.UsesPostalCode() {
		return st, nil
	}
	toggle := b.field(st, KeyLimitByPostalCode, model.FieldTypeCheckbox, "")
	toggle.Default = st.value.LimitByPostalCode
	toggle.Value = nil
	tree := st.tree.With(toggle)

	for _, key := range []string{KeyIncludedPostalCodes, KeyExcludedPostalCodes} {
		field := b.field(st, key, model.FieldTypeTextfield, st.value.Get(key))
		field.Description = postalCodeDescription
		field.Visibility = &model.VisibilityBinding{
			Input: toggle.Name,
			Rule:  KeyLimitByPostalCode + " == true",
		}
		tree = tree.With(field)
	}

	tree, err := visibility.Apply(tree, b.evaluator, visibility.Context{
		Values: map[string]any{KeyLimitByPostalCode: st.value.LimitByPostalCode},
	})
	if err != nil {
		return st, fmt.Errorf("territory: postal code visibility: %w", err)
	}
	st.tree = tree
	return st, nil
}

// clearOnCountryChange drops subdivision values carried over from the previous
// country so they are never validated against the new option lists.
func clearOnCountryChange(_ context.Context, _ *Builder, st state) (state, error) {
	trigger := strings.TrimSpace(st.req.Trigger)
	if trigger == "" {
		return st, nil
	}
	if trigger != KeyCountryCode && trigger != model.InputName(st.req.Parents, KeyCountryCode) {
		return st, nil
	}

	st.value.Territory = st.value.ClearSubdivisions()
	if st.input != nil {
		cleared := *st.input
		cleared.Territory = cleared.ClearSubdivisions()
		st.input = &cleared
	}
	st.tree = st.tree.
		Without(KeyLocality, KeyDependentLocality).
		Update(KeyAdministrativeArea, func(f model.Field) model.Field {
			f.Default = ""
			f.Value = model.StringPtr("")
			return f
		})
	return st, nil
}

func (b *Builder) field(st state, key string, kind model.FieldType, value string) model.Field {
	field := model.Field{
		Key:     key,
		Name:    model.InputName(st.req.Parents, key),
		ID:      fieldID(st.req.Parents, key),
		Type:    kind,
		Title:   b.titles[key],
		Default: value,
	}
	if st.input != nil {
		field.Value = model.StringPtr(value)
	}
	return field
}

func (b *Builder) ajax(st state) *model.AjaxBinding {
	return &model.AjaxBinding{Wrapper: st.tree.ID, Event: b.ajaxEvent}
}
