package visibility_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-geoform/pkg/model"
	"github.com/goliatone/go-geoform/pkg/visibility"
	"github.com/goliatone/go-geoform/pkg/visibility/expr"
)

func TestApply_MarksHiddenFromRule(t *testing.T) {
	tree := model.Tree{Fields: []model.Field{
		{Key: "limit_by_postal_code", Type: model.FieldTypeCheckbox},
		{Key: "included_postal_codes", Type: model.FieldTypeTextfield, Visibility: &model.VisibilityBinding{Rule: "limit_by_postal_code == true"}},
	}}

	hidden, err := visibility.Apply(tree, expr.New(), visibility.Context{Values: map[string]any{"limit_by_postal_code": false}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	field, _ := hidden.Field("included_postal_codes")
	if !field.Hidden {
		t.Fatalf("expected field hidden when toggle unchecked")
	}
	if original, _ := tree.Field("included_postal_codes"); original.Hidden {
		t.Fatalf("expected input tree untouched")
	}

	shown, err := visibility.Apply(tree, expr.New(), visibility.Context{Values: map[string]any{"limit_by_postal_code": true}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if field, _ := shown.Field("included_postal_codes"); field.Hidden {
		t.Fatalf("expected field visible when toggle checked")
	}
}

func TestApply_PropagatesEvaluatorError(t *testing.T) {
	boom := errors.New("boom")
	tree := model.Tree{Fields: []model.Field{{Key: "a", Visibility: &model.VisibilityBinding{Rule: "x"}}}}
	_, err := visibility.Apply(tree, visibility.EvaluatorFunc(func(string, string, visibility.Context) (bool, error) {
		return false, boom
	}), visibility.Context{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
