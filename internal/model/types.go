package model

// FieldType is the simplified enum for the input kinds a host renders.
type FieldType string

const (
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeTextfield FieldType = "textfield"
	FieldTypeHidden    FieldType = "hidden"
	FieldTypeItem      FieldType = "item"
	FieldTypeMarkup    FieldType = "markup"
	FieldTypeButton    FieldType = "button"
	FieldTypeFieldset  FieldType = "fieldset"
	FieldTypeActions   FieldType = "actions"
)

// Option is a single value/label pair inside a select field. Options are kept
// as an ordered slice so the enumeration order of the data source survives
// JSON round trips.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AjaxBinding marks a field whose change event triggers a partial rebuild of
// the fragment identified by Wrapper.
type AjaxBinding struct {
	Wrapper string `json:"wrapper"`
	Event   string `json:"event,omitempty"`
}

// VisibilityBinding ties the visibility of a field to another input. Rule is
// evaluated by pkg/visibility/expr against the element values; Input is the
// full name of the controlling input so client runtimes can watch it.
type VisibilityBinding struct {
	Input string `json:"input"`
	Rule  string `json:"rule"`
}

// Field models a single node of a declarative field tree. Key is the property
// name relative to the parent element, Name the fully qualified input name and
// ID the DOM identifier.
type Field struct {
	Key         string             `json:"key"`
	Name        string             `json:"name,omitempty"`
	ID          string             `json:"id,omitempty"`
	Type        FieldType          `json:"type"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Options     []Option           `json:"options,omitempty"`
	EmptyOption *Option            `json:"emptyOption,omitempty"`
	Default     any                `json:"default,omitempty"`
	Value       *string            `json:"value,omitempty"`
	Markup      string             `json:"markup,omitempty"`
	Prefix      string             `json:"prefix,omitempty"`
	Suffix      string             `json:"suffix,omitempty"`
	Size        int                `json:"size,omitempty"`
	Weight      int                `json:"weight,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Hidden      bool               `json:"hidden,omitempty"`
	Ajax        *AjaxBinding       `json:"ajax,omitempty"`
	Visibility  *VisibilityBinding `json:"visibility,omitempty"`
	Attributes  map[string]string  `json:"attributes,omitempty"`
	Classes     []string           `json:"classes,omitempty"`
	Libraries   []string           `json:"libraries,omitempty"`
	Children    []Field            `json:"children,omitempty"`
}

// Tree is the top-level fragment a builder hands to the host. ID doubles as
// the fragment id used for partial refreshes.
type Tree struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents,omitempty"`
	Fields  []Field  `json:"fields"`
}
