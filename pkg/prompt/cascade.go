package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/territory"
)

var (
	// ErrMissingBuilder is returned when a cascade is built without a
	// territory builder.
	ErrMissingBuilder = errors.New("prompt: territory builder is required")
	// ErrMissingDriver is returned when a cascade is built without a driver.
	ErrMissingDriver = errors.New("prompt: driver is required")
)

// CascadeOption customises a Cascade.
type CascadeOption func(*Cascade)

// WithParents sets the element position used for input names.
func WithParents(parents ...string) CascadeOption {
	return func(c *Cascade) {
		c.parents = append([]string(nil), parents...)
	}
}

// WithRequired forces a country to be picked.
func WithRequired(required bool) CascadeOption {
	return func(c *Cascade) {
		c.required = required
	}
}

// WithPageSize sets how many options a select shows at once.
func WithPageSize(size int) CascadeOption {
	return func(c *Cascade) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// Cascade walks a territory tree on the terminal: every select is asked in
// order, and a choice on an AJAX-bound select rebuilds the tree the way a
// browser refresh would before the next level is asked.
type Cascade struct {
	builder  *territory.Builder
	driver   Driver
	parents  []string
	required bool
	pageSize int
}

// NewCascade wires a builder to a driver.
func NewCascade(builder *territory.Builder, driver Driver, options ...CascadeOption) (*Cascade, error) {
	if builder == nil {
		return nil, ErrMissingBuilder
	}
	if driver == nil {
		return nil, ErrMissingDriver
	}
	c := &Cascade{builder: builder, driver: driver, parents: []string{"territory"}, pageSize: 15}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Run asks for a territory starting from initial and returns the validated
// value.
func (c *Cascade) Run(ctx context.Context, initial territory.Territory) (territory.Territory, error) {
	input := territory.Submission{
		Territory:         initial,
		LimitByPostalCode: initial.HasPostalPatterns(),
	}
	result, err := c.build(ctx, input, "")
	if err != nil {
		return territory.Territory{}, err
	}
	input = result.Value

	asked := make(map[string]bool)
	for {
		field, ok := nextSelect(result.Tree, asked)
		if !ok {
			break
		}
		asked[field.Key] = true

		value, err := c.choose(ctx, field, input.Get(field.Key))
		if err != nil {
			return territory.Territory{}, err
		}
		input.Territory = input.With(field.Key, value)
		if field.Ajax == nil {
			continue
		}
		if result, err = c.build(ctx, input, field.Name); err != nil {
			return territory.Territory{}, err
		}
		input = result.Value
	}

	if result.Tree.Has(territory.KeyLimitByPostalCode) {
		if input, err = c.postal(ctx, result.Tree, input); err != nil {
			return territory.Territory{}, err
		}
	}
	return territory.Validate(input), nil
}

func (c *Cascade) build(ctx context.Context, input territory.Submission, trigger string) (territory.Result, error) {
	result, err := c.builder.Build(ctx, territory.Request{
		Parents:  c.parents,
		Required: c.required,
		Input:    &input,
		Trigger:  trigger,
	})
	if err != nil {
		return territory.Result{}, fmt.Errorf("prompt: build territory: %w", err)
	}
	return result, nil
}

func (c *Cascade) choose(ctx context.Context, field model.Field, current string) (string, error) {
	options := field.Options
	if field.EmptyOption != nil {
		options = append([]model.Option{*field.EmptyOption}, options...)
	}
	if len(options) == 0 {
		return "", nil
	}
	labels := make([]string, 0, len(options))
	selected := 0
	for i, option := range options {
		labels = append(labels, option.Label)
		if option.Value == current {
			selected = i
		}
	}

	idx, err := c.driver.Select(ctx, SelectConfig{
		Message:      field.Title,
		Options:      labels,
		DefaultIndex: selected,
		Help:         field.Description,
		PageSize:     c.pageSize,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("prompt: %s: option %d out of range", field.Key, idx)
	}
	return options[idx].Value, nil
}

func (c *Cascade) postal(ctx context.Context, tree model.Tree, input territory.Submission) (territory.Submission, error) {
	toggle, _ := tree.Field(territory.KeyLimitByPostalCode)
	limit, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: toggle.Title,
		Default: input.LimitByPostalCode,
	})
	if err != nil {
		return input, err
	}
	input.LimitByPostalCode = limit
	if !limit {
		return input, nil
	}

	for _, key := range []string{territory.KeyIncludedPostalCodes, territory.KeyExcludedPostalCodes} {
		field, ok := tree.Field(key)
		if !ok {
			continue
		}
		value, err := c.driver.Input(ctx, InputConfig{
			Message: field.Title,
			Default: input.Get(key),
			Help:    field.Description,
		})
		if err != nil {
			return input, err
		}
		input.Territory = input.With(key, strings.TrimSpace(value))
	}
	return input, nil
}

// nextSelect returns the first select, in render order, not asked yet.
func nextSelect(tree model.Tree, asked map[string]bool) (model.Field, bool) {
	for _, field := range tree.Ordered() {
		if field.Type == model.FieldTypeSelect && !asked[field.Key] {
			return field, true
		}
	}
	return model.Field{}, false
}
