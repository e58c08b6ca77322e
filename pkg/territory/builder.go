package territory

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/visibility"
)

// Builder assembles territory field trees from address metadata. It is
// immutable after New and safe for concurrent use.
type Builder struct {
	repos     address.Repositories
	evaluator visibility.Evaluator
	labeler   Labeler
	ajaxEvent string
	titles    map[string]string
}

// Request carries the state a tree is built from.
type Request struct {
	// Parents is the element's position in the host form, e.g. ["zone",
	// "territory"]. It drives input names, ids and the fragment id.
	Parents []string
	// Required forces a country to be selected.
	Required bool
	// Default is the stored territory used when nothing was submitted.
	Default Territory
	// Input is the submitted element value, nil on the initial render.
	Input *Submission
	// Trigger names the input that caused the rebuild, either by its full
	// input name or by its property key.
	Trigger string
}

// Result is a built tree together with the resolved element value and the raw
// input after post-submission clearing.
type Result struct {
	Tree  model.Tree  `json:"tree"`
	Value Submission  `json:"value"`
	Input *Submission `json:"input,omitempty"`
}

// Fragment is the part of a tree a client swaps in after an AJAX refresh.
type Fragment struct {
	ID    string     `json:"id"`
	Tree  model.Tree `json:"tree"`
	Value Submission `json:"value"`
}

// New constructs a Builder over the supplied repositories.
func New(repos address.Repositories, options ...Option) (*Builder, error) {
	if repos.Countries == nil || repos.Formats == nil || repos.Subdivisions == nil {
		return nil, ErrMissingRepository
	}
	b := defaultBuilder(repos)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b, nil
}

// Build runs the build pipeline for req.
func (b *Builder) Build(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, ErrMissingContext
	}
	st := newState(req)
	for _, stage := range pipeline {
		next, err := stage(ctx, b, st)
		if err != nil {
			return Result{}, err
		}
		st = next
	}
	return Result{Tree: st.tree, Value: st.value, Input: st.input}, nil
}

// Refresh rebuilds the tree from the submitted partial state and returns the
// fragment the triggering field is bound to.
func (b *Builder) Refresh(ctx context.Context, req Request) (Fragment, error) {
	if strings.TrimSpace(req.Trigger) == "" {
		return Fragment{}, ErrUnknownTrigger
	}
	result, err := b.Build(ctx, req)
	if err != nil {
		return Fragment{}, err
	}
	field, ok := findTrigger(result.Tree, req.Trigger)
	if !ok || field.Ajax == nil {
		return Fragment{}, fmt.Errorf("%w: %q", ErrUnknownTrigger, req.Trigger)
	}
	if field.Ajax.Wrapper != result.Tree.ID {
		return Fragment{}, fmt.Errorf("%w: no fragment %q", ErrUnknownTrigger, field.Ajax.Wrapper)
	}
	return Fragment{ID: result.Tree.ID, Tree: result.Tree, Value: result.Value}, nil
}

// FragmentID returns the id of the fragment refreshed for an element placed
// under parents.
func FragmentID(parents []string) string {
	return model.CleanID(strings.Join(parents, "-") + "-ajax-wrapper")
}

func findTrigger(tree model.Tree, trigger string) (model.Field, bool) {
	trigger = strings.TrimSpace(trigger)
	for _, field := range tree.Fields {
		if field.Name == trigger || field.Key == trigger {
			return field, true
		}
	}
	return model.Field{}, false
}

func fieldID(parents []string, key string) string {
	segments := append(append([]string{"edit"}, parents...), key)
	return model.CleanID(strings.Join(segments, "-"))
}
