package visibility

import "github.com/goliatone/go-geoform/pkg/model"

// Evaluator determines whether a field should be visible based on a rule
// string and the current element values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the element values
// keyed by property name (checkbox states arrive as bools); Extras lets callers
// inject anything else a rule may reference through the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Apply evaluates the visibility binding of every top-level field in tree and
// returns a new tree with Field.Hidden set accordingly. Fields without a
// binding keep their Hidden flag.
func Apply(tree model.Tree, evaluator Evaluator, ctx Context) (model.Tree, error) {
	if evaluator == nil {
		return tree.Clone(), nil
	}
	out := tree.Clone()
	for i, field := range out.Fields {
		if field.Visibility == nil || field.Visibility.Rule == "" {
			continue
		}
		visible, err := evaluator.Eval(field.Key, field.Visibility.Rule, ctx)
		if err != nil {
			return model.Tree{}, err
		}
		out.Fields[i].Hidden = !visible
	}
	return out, nil
}
