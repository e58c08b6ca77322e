package model

import internalmodel "github.com/goliatone/go-geoform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeSelect    = internalmodel.FieldTypeSelect
	FieldTypeCheckbox  = internalmodel.FieldTypeCheckbox
	FieldTypeTextfield = internalmodel.FieldTypeTextfield
	FieldTypeHidden    = internalmodel.FieldTypeHidden
	FieldTypeItem      = internalmodel.FieldTypeItem
	FieldTypeMarkup    = internalmodel.FieldTypeMarkup
	FieldTypeButton    = internalmodel.FieldTypeButton
	FieldTypeFieldset  = internalmodel.FieldTypeFieldset
	FieldTypeActions   = internalmodel.FieldTypeActions
)

type Option = internalmodel.Option
type AjaxBinding = internalmodel.AjaxBinding
type VisibilityBinding = internalmodel.VisibilityBinding
type Field = internalmodel.Field
type Tree = internalmodel.Tree

// StringPtr returns a pointer to value, handy for Field.Value.
func StringPtr(value string) *string { return internalmodel.StringPtr(value) }

// CleanID converts raw into a lowercase HTML id.
func CleanID(raw string) string { return internalmodel.CleanID(raw) }

// InputName renders the nested input name for key below parents.
func InputName(parents []string, key string) string { return internalmodel.InputName(parents, key) }
