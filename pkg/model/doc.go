// Package model defines the declarative field tree consumed by form hosts and
// renderers. Builders (pkg/territory, pkg/mapfield) return the types defined
// here. A Tree is an ordered list of Field values; every Tree method returns a
// new value so pipeline stages can derive trees without sharing state.
// AjaxBinding marks inputs whose change rebuilds the fragment named by
// Tree.ID, while VisibilityBinding carries a pkg/visibility/expr rule that the
// builder evaluates into Field.Hidden and client runtimes can re-evaluate.
package model
