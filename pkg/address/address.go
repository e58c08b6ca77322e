package address

import (
	"context"
	"strings"
)

// Field names an address field as used by address formats.
type Field string

const (
	FieldAdministrativeArea Field = "administrativeArea"
	FieldLocality           Field = "locality"
	FieldDependentLocality  Field = "dependentLocality"
	FieldPostalCode         Field = "postalCode"
	FieldSortingCode        Field = "sortingCode"
	FieldAddressLine1       Field = "addressLine1"
	FieldAddressLine2       Field = "addressLine2"
	FieldOrganization       Field = "organization"
	FieldGivenName          Field = "givenName"
	FieldFamilyName         Field = "familyName"
)

// Property returns the snake_case property name a territory stores the field
// under (administrativeArea -> administrative_area).
func (f Field) Property() string {
	var b strings.Builder
	for i, r := range string(f) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Country is one entry of the ordered country list.
type Country struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Subdivision is an administrative region below country level.
type Subdivision struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Format describes which address fields a country uses. SubdivisionDepth is
// the number of levels with predefined subdivision data; the *Type values pick
// the labels shown for each level.
type Format struct {
	CountryCode            string  `json:"country_code" yaml:"country_code"`
	SubdivisionDepth       int     `json:"subdivision_depth" yaml:"subdivision_depth"`
	UsedFields             []Field `json:"used_fields" yaml:"used_fields"`
	AdministrativeAreaType string  `json:"administrative_area_type,omitempty" yaml:"administrative_area_type,omitempty"`
	LocalityType           string  `json:"locality_type,omitempty" yaml:"locality_type,omitempty"`
	DependentLocalityType  string  `json:"dependent_locality_type,omitempty" yaml:"dependent_locality_type,omitempty"`
}

var subdivisionFields = []Field{FieldAdministrativeArea, FieldLocality, FieldDependentLocality}

// SubdivisionFields returns the fixed subdivision hierarchy.
func SubdivisionFields() []Field {
	return append([]Field(nil), subdivisionFields...)
}

// UsedSubdivisionFields returns the subdivision fields the format uses, in
// hierarchy order.
func (f Format) UsedSubdivisionFields() []Field {
	var out []Field
	for _, field := range subdivisionFields {
		if f.Uses(field) {
			out = append(out, field)
		}
	}
	return out
}

// Uses reports whether field is part of the format.
func (f Format) Uses(field Field) bool {
	for _, used := range f.UsedFields {
		if used == field {
			return true
		}
	}
	return false
}

// UsesPostalCode reports whether the format collects postal codes.
func (f Format) UsesPostalCode() bool {
	return f.Uses(FieldPostalCode)
}

// CountryRepository lists countries in the order selectors should show them.
type CountryRepository interface {
	List(ctx context.Context) ([]Country, error)
}

// FormatRepository resolves the address format for a country code.
type FormatRepository interface {
	Get(ctx context.Context, countryCode string) (Format, error)
}

// SubdivisionRepository lists the subdivisions below a parent chain such as
// ["US"] or ["BR", "SC"].
type SubdivisionRepository interface {
	List(ctx context.Context, parents []string) ([]Subdivision, error)
}

// Repositories bundles the three lookups a territory builder needs.
type Repositories struct {
	Countries    CountryRepository
	Formats      FormatRepository
	Subdivisions SubdivisionRepository
}

var parentKeyEscaper = strings.NewReplacer(`\`, `\\`, "/", `\/`)

// ParentKey joins a parent chain into the canonical lookup key ("BR/SC").
// Codes are escaped so hyphenated or slashed codes never collide with a
// longer chain.
func ParentKey(parents []string) string {
	clean := CleanParents(parents)
	for i, code := range clean {
		clean[i] = parentKeyEscaper.Replace(code)
	}
	return strings.Join(clean, "/")
}

// CleanParents trims every code of a parent chain, drops empty ones and
// upper-cases the leading country code.
func CleanParents(parents []string) []string {
	clean := make([]string, 0, len(parents))
	for _, parent := range parents {
		if trimmed := strings.TrimSpace(parent); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) > 0 {
		clean[0] = strings.ToUpper(clean[0])
	}
	return clean
}
