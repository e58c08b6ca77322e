package memory

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-geoform/pkg/address"
)

//go:embed data/address.yaml
var dataFS embed.FS

const (
	defaultDatasetPath = "data/address.yaml"

	// GenericFormatCode is the format used for countries without their own
	// entry.
	GenericFormatCode = "ZZ"
)

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Dataset is the on-disk shape of an address metadata file (JSON or YAML).
type Dataset struct {
	Countries    []address.Country         `json:"countries" yaml:"countries"`
	Formats      map[string]address.Format `json:"formats" yaml:"formats"`
	Subdivisions []SubdivisionList         `json:"subdivisions" yaml:"subdivisions"`
}

// SubdivisionList holds the subdivisions below one parent chain, e.g.
// parents [FR, Auvergne-Rhône-Alpes].
type SubdivisionList struct {
	Parents []string              `json:"parents" yaml:"parents"`
	Items   []address.Subdivision `json:"items" yaml:"items"`
}

// Store is an immutable, in-memory address metadata set. It is safe for
// concurrent readers.
type Store struct {
	countries    []address.Country
	formats      map[string]address.Format
	lists        []SubdivisionList
	subdivisions map[string][]address.Subdivision
}

// Default returns the store backed by the embedded dataset.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = LoadFS(dataFS, defaultDatasetPath)
	})
	return defaultStore, defaultErr
}

// LoadFS reads and parses the dataset at path inside fsys.
func LoadFS(fsys fs.FS, path string) (*Store, error) {
	if fsys == nil {
		return nil, fmt.Errorf("memory: missing filesystem")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("memory: read %s: %w", path, err)
	}
	return parse(data, path)
}

// Load parses a dataset from r.
func Load(r io.Reader) (*Store, error) {
	if r == nil {
		return nil, fmt.Errorf("memory: missing reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("memory: read dataset: %w", err)
	}
	return parse(data, "reader")
}

// New builds a store from an already decoded dataset.
func New(ds Dataset) (*Store, error) {
	store := &Store{
		formats:      make(map[string]address.Format, len(ds.Formats)),
		subdivisions: make(map[string][]address.Subdivision, len(ds.Subdivisions)),
	}

	seen := make(map[string]struct{}, len(ds.Countries))
	for idx, country := range ds.Countries {
		code := strings.ToUpper(strings.TrimSpace(country.Code))
		if code == "" {
			return nil, fmt.Errorf("memory: country at index %d has an empty code", idx)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("memory: duplicate country %q", code)
		}
		seen[code] = struct{}{}
		name := strings.TrimSpace(country.Name)
		if name == "" {
			name = code
		}
		store.countries = append(store.countries, address.Country{Code: code, Name: name})
	}

	for code, format := range ds.Formats {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("memory: format with an empty country code")
		}
		if format.SubdivisionDepth < 0 {
			return nil, fmt.Errorf("memory: format %q has a negative subdivision depth", code)
		}
		format.CountryCode = code
		format.UsedFields = append([]address.Field(nil), format.UsedFields...)
		store.formats[code] = format
	}

	for idx, list := range ds.Subdivisions {
		parents := address.CleanParents(list.Parents)
		if len(parents) == 0 {
			return nil, fmt.Errorf("memory: subdivision list at index %d has no parents", idx)
		}
		key := address.ParentKey(parents)
		if _, dup := store.subdivisions[key]; dup {
			return nil, fmt.Errorf("memory: duplicate subdivision list for %q", parents)
		}
		items := append([]address.Subdivision(nil), list.Items...)
		store.subdivisions[key] = items
		store.lists = append(store.lists, SubdivisionList{Parents: parents, Items: items})
	}

	return store, nil
}

func parse(data []byte, source string) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("memory: dataset %s is empty", source)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		if yerr := yaml.Unmarshal(data, &ds); yerr != nil {
			return nil, fmt.Errorf("memory: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	return New(ds)
}

// Dataset returns a copy of the store contents, e.g. for seeding another
// backend.
func (s *Store) Dataset() Dataset {
	ds := Dataset{
		Countries:    append([]address.Country(nil), s.countries...),
		Formats:      make(map[string]address.Format, len(s.formats)),
		Subdivisions: make([]SubdivisionList, 0, len(s.lists)),
	}
	for code, format := range s.formats {
		format.UsedFields = append([]address.Field(nil), format.UsedFields...)
		ds.Formats[code] = format
	}
	for _, list := range s.lists {
		ds.Subdivisions = append(ds.Subdivisions, SubdivisionList{
			Parents: append([]string(nil), list.Parents...),
			Items:   append([]address.Subdivision(nil), list.Items...),
		})
	}
	return ds
}

// Repositories exposes the store through the address repository interfaces.
func (s *Store) Repositories() address.Repositories {
	return address.Repositories{
		Countries:    CountryRepository{store: s},
		Formats:      FormatRepository{store: s},
		Subdivisions: SubdivisionRepository{store: s},
	}
}

// CountryRepository serves the ordered country list.
type CountryRepository struct{ store *Store }

func (r CountryRepository) List(ctx context.Context) ([]address.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]address.Country(nil), r.store.countries...), nil
}

// FormatRepository resolves formats, falling back to the generic format.
type FormatRepository struct{ store *Store }

func (r FormatRepository) Get(ctx context.Context, countryCode string) (address.Format, error) {
	if err := ctx.Err(); err != nil {
		return address.Format{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	format, ok := r.store.formats[code]
	if !ok {
		format = r.store.formats[GenericFormatCode]
	}
	format.CountryCode = code
	format.UsedFields = append([]address.Field(nil), format.UsedFields...)
	return format, nil
}

// SubdivisionRepository serves subdivisions by parent chain. The country code
// is matched case-insensitively; unknown chains yield an empty list.
type SubdivisionRepository struct{ store *Store }

func (r SubdivisionRepository) List(ctx context.Context, parents []string) ([]address.Subdivision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list := r.store.subdivisions[address.ParentKey(parents)]
	if len(list) == 0 {
		return nil, nil
	}
	return append([]address.Subdivision(nil), list...), nil
}
