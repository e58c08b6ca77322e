package territory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/address/memory"
	"github.com/goliatone/go-geoform/pkg/model"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var errMissingParents = StatusError{Code: http.StatusBadRequest, Err: errors.New("territory: parents are required")}

type optionsResponse struct {
	Data []model.Option `json:"data"`
}

type loader func(ctx context.Context, r *http.Request, opts Options) ([]model.Option, error)

// CountriesHandler serves the searchable country list.
func CountriesHandler(fns ...OptionFn) http.Handler {
	return CountriesHandlerWithOptions(NewOptions(fns...))
}

// CountriesHandlerWithOptions builds the country handler from a pre-built
// Options value.
func CountriesHandlerWithOptions(opts Options) http.Handler {
	return handlerWithOptions(opts, loadCountries)
}

// SubdivisionsHandler serves the subdivisions below the comma separated
// parents query parameter, e.g. ?parents=BR,SC.
func SubdivisionsHandler(fns ...OptionFn) http.Handler {
	return SubdivisionsHandlerWithOptions(NewOptions(fns...))
}

// SubdivisionsHandlerWithOptions builds the subdivision handler from a
// pre-built Options value.
func SubdivisionsHandlerWithOptions(opts Options) http.Handler {
	return handlerWithOptions(opts, loadSubdivisions)
}

func handlerWithOptions(opts Options, load loader) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, err, http.StatusForbidden)
				return
			}
		}

		options, err := load(r.Context(), r, opts)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		query := r.URL.Query().Get(opts.SearchParam)
		limit := parseInt(r.URL.Query().Get(opts.LimitParam))
		results := Search(options, query, limit, opts)
		if results == nil {
			results = []model.Option{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}

func loadCountries(ctx context.Context, _ *http.Request, opts Options) ([]model.Option, error) {
	repo := opts.Repositories.Countries
	if repo == nil {
		store, err := memory.Default()
		if err != nil {
			return nil, err
		}
		repo = store.Repositories().Countries
	}
	countries, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Option, 0, len(countries))
	for _, country := range countries {
		out = append(out, model.Option{Value: country.Code, Label: country.Name})
	}
	return out, nil
}

func loadSubdivisions(ctx context.Context, r *http.Request, opts Options) ([]model.Option, error) {
	parents := address.CleanParents(strings.Split(r.URL.Query().Get(opts.ParentsParam), ","))
	if len(parents) == 0 {
		return nil, errMissingParents
	}
	repo := opts.Repositories.Subdivisions
	if repo == nil {
		store, err := memory.Default()
		if err != nil {
			return nil, err
		}
		repo = store.Repositories().Subdivisions
	}
	list, err := repo.List(ctx, parents)
	if err != nil {
		return nil, err
	}
	out := make([]model.Option, 0, len(list))
	for _, item := range list {
		out = append(out, model.Option{Value: item.Code, Label: item.Name})
	}
	return out, nil
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	if w == nil {
		return
	}
	code := fallback
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = fallback
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
