package territory

import (
	"context"
	"strings"

	"github.com/goliatone/go-geoform/pkg/address"
)

type fakeRepos struct {
	countries    []address.Country
	formats      map[string]address.Format
	subdivisions map[string][]address.Subdivision
	err          error
	calls        []string
}

func (f *fakeRepos) repositories() address.Repositories {
	return address.Repositories{
		Countries:    fakeCountries{f},
		Formats:      fakeFormats{f},
		Subdivisions: fakeSubdivisions{f},
	}
}

type fakeCountries struct{ f *fakeRepos }

func (r fakeCountries) List(context.Context) ([]address.Country, error) {
	r.f.calls = append(r.f.calls, "countries")
	if r.f.err != nil {
		return nil, r.f.err
	}
	return r.f.countries, nil
}

type fakeFormats struct{ f *fakeRepos }

func (r fakeFormats) Get(_ context.Context, code string) (address.Format, error) {
	r.f.calls = append(r.f.calls, "format:"+code)
	format := r.f.formats[code]
	format.CountryCode = code
	return format, nil
}

type fakeSubdivisions struct{ f *fakeRepos }

func (r fakeSubdivisions) List(_ context.Context, parents []string) ([]address.Subdivision, error) {
	r.f.calls = append(r.f.calls, "subdivisions:"+strings.Join(parents, "-"))
	return r.f.subdivisions[address.ParentKey(parents)], nil
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		countries: []address.Country{
			{Code: "US", Name: "United States"},
			{Code: "FR", Name: "France"},
			{Code: "BR", Name: "Brazil"},
		},
		formats: map[string]address.Format{
			"US": {
				SubdivisionDepth:       2,
				UsedFields:             []address.Field{address.FieldAdministrativeArea, address.FieldLocality},
				AdministrativeAreaType: "state",
			},
			"FR": {
				SubdivisionDepth: 0,
				UsedFields:       []address.Field{address.FieldLocality, address.FieldPostalCode},
			},
			"BR": {
				SubdivisionDepth: 3,
				UsedFields: []address.Field{
					address.FieldAdministrativeArea,
					address.FieldLocality,
					address.FieldDependentLocality,
					address.FieldPostalCode,
				},
				AdministrativeAreaType: "state",
				LocalityType:           "city",
				DependentLocalityType:  "neighborhood",
			},
		},
		subdivisions: map[string][]address.Subdivision{
			"US":                  {{Code: "CA", Name: "California"}, {Code: "NY", Name: "New York"}},
			"BR":                  {{Code: "SC", Name: "Santa Catarina"}},
			"BR/SC":               {{Code: "Florianópolis", Name: "Florianópolis"}},
			"BR/SC/Florianópolis": {{Code: "Centro", Name: "Centro"}},
		},
	}
}
