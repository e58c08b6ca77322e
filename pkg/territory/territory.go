package territory

import (
	"errors"
	"strings"

	"github.com/goliatone/go-geoform/pkg/address"
)

// Property keys of a territory element. Subdivision keys match
// address.Field.Property for the matching field.
const (
	KeyCountryCode         = "country_code"
	KeyAdministrativeArea  = "administrative_area"
	KeyLocality            = "locality"
	KeyDependentLocality   = "dependent_locality"
	KeyLimitByPostalCode   = "limit_by_postal_code"
	KeyIncludedPostalCodes = "included_postal_codes"
	KeyExcludedPostalCodes = "excluded_postal_codes"
)

var (
	// ErrMissingRepository is returned when a builder is created without the
	// address repositories it needs.
	ErrMissingRepository = errors.New("territory: address repositories are required")
	// ErrUnknownTrigger is returned by Refresh when the trigger does not name an
	// AJAX-bound field of the rebuilt tree.
	ErrUnknownTrigger = errors.New("territory: trigger is not bound to a refresh")
	// ErrMissingContext is returned when a nil context is supplied.
	ErrMissingContext = errors.New("territory: context is required")
)

// Territory is the zone-targeting criteria collected by the element.
type Territory struct {
	CountryCode         string `json:"country_code"`
	AdministrativeArea  string `json:"administrative_area"`
	Locality            string `json:"locality"`
	DependentLocality   string `json:"dependent_locality"`
	IncludedPostalCodes string `json:"included_postal_codes"`
	ExcludedPostalCodes string `json:"excluded_postal_codes"`
}

// Submission is a territory as posted by the client. LimitByPostalCode is form
// state only and never reaches a stored Territory.
type Submission struct {
	Territory
	LimitByPostalCode bool `json:"limit_by_postal_code"`
}

// Get returns the value stored under a property key, or "" for unknown keys.
func (t Territory) Get(key string) string {
	switch key {
	case KeyCountryCode:
		return t.CountryCode
	case KeyAdministrativeArea:
		return t.AdministrativeArea
	case KeyLocality:
		return t.Locality
	case KeyDependentLocality:
		return t.DependentLocality
	case KeyIncludedPostalCodes:
		return t.IncludedPostalCodes
	case KeyExcludedPostalCodes:
		return t.ExcludedPostalCodes
	}
	return ""
}

// With returns a copy of t with key set to value. Unknown keys are ignored.
func (t Territory) With(key, value string) Territory {
	switch key {
	case KeyCountryCode:
		t.CountryCode = value
	case KeyAdministrativeArea:
		t.AdministrativeArea = value
	case KeyLocality:
		t.Locality = value
	case KeyDependentLocality:
		t.DependentLocality = value
	case KeyIncludedPostalCodes:
		t.IncludedPostalCodes = value
	case KeyExcludedPostalCodes:
		t.ExcludedPostalCodes = value
	}
	return t
}

// HasPostalPatterns reports whether either postal pattern is set.
func (t Territory) HasPostalPatterns() bool {
	return t.IncludedPostalCodes != "" || t.ExcludedPostalCodes != ""
}

// ClearSubdivisions returns a copy of t without subdivision values.
func (t Territory) ClearSubdivisions() Territory {
	t.AdministrativeArea = ""
	t.Locality = ""
	t.DependentLocality = ""
	return t
}

// Validate narrows a submission into the Territory handed to consumers. All
// values are trimmed; the postal patterns are discarded unless the toggle is
// checked.
func Validate(sub Submission) Territory {
	out := Territory{
		CountryCode:        strings.TrimSpace(sub.CountryCode),
		AdministrativeArea: strings.TrimSpace(sub.AdministrativeArea),
		Locality:           strings.TrimSpace(sub.Locality),
		DependentLocality:  strings.TrimSpace(sub.DependentLocality),
	}
	if sub.LimitByPostalCode {
		out.IncludedPostalCodes = strings.TrimSpace(sub.IncludedPostalCodes)
		out.ExcludedPostalCodes = strings.TrimSpace(sub.ExcludedPostalCodes)
	}
	return out
}

func subdivisionKey(field address.Field) string {
	return field.Property()
}
