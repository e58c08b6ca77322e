package territory

import (
	"net/http"

	"github.com/goliatone/go-geoform/pkg/address"
)

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	CountriesPath    string
	SubdivisionsPath string
	SearchParam      string
	LimitParam       string
	ParentsParam     string
	DefaultLimit     int
	MaxLimit         int
	EmptySearchMode  EmptySearchMode
	Guard            GuardFunc

	// Repositories backs the endpoints. When Countries or Subdivisions is nil
	// the embedded memory dataset is used.
	Repositories address.Repositories
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		CountriesPath:    "/api/territory/countries",
		SubdivisionsPath: "/api/territory/subdivisions",
		SearchParam:      "q",
		LimitParam:       "limit",
		ParentsParam:     "parents",
		DefaultLimit:     50,
		MaxLimit:         500,
		EmptySearchMode:  EmptySearchTop,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = defaults.EmptySearchMode
	}
	if opts.CountriesPath == "" {
		opts.CountriesPath = defaults.CountriesPath
	}
	if opts.SubdivisionsPath == "" {
		opts.SubdivisionsPath = defaults.SubdivisionsPath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = defaults.SearchParam
	}
	if opts.LimitParam == "" {
		opts.LimitParam = defaults.LimitParam
	}
	if opts.ParentsParam == "" {
		opts.ParentsParam = defaults.ParentsParam
	}
	return opts
}

func WithCountriesPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CountriesPath = path
	}
}

func WithSubdivisionsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SubdivisionsPath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithParentsParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ParentsParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptySearchMode = mode
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithRepositories(repos address.Repositories) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Repositories = repos
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
