package territory

import (
	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/visibility"
	"github.com/goliatone/go-geoform/pkg/visibility/expr"
)

// Labeler resolves the display label of each subdivision level.
type Labeler func(format address.Format) map[address.Field]string

// Option customises a Builder.
type Option func(*Builder)

// WithEvaluator swaps the evaluator used for the postal pattern visibility
// rules. Passing nil keeps the default expression evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(b *Builder) {
		if evaluator != nil {
			b.evaluator = evaluator
		}
	}
}

// WithLabeler overrides how subdivision selects are titled.
func WithLabeler(labeler Labeler) Option {
	return func(b *Builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// WithAjaxEvent sets the client event that triggers a refresh.
func WithAjaxEvent(event string) Option {
	return func(b *Builder) {
		if event != "" {
			b.ajaxEvent = event
		}
	}
}

// WithTitles overrides the static field titles, keyed by property key.
func WithTitles(titles map[string]string) Option {
	return func(b *Builder) {
		for key, title := range titles {
			if title == "" {
				continue
			}
			b.titles[key] = title
		}
	}
}

func defaultBuilder(repos address.Repositories) *Builder {
	return &Builder{
		repos:     repos,
		evaluator: expr.New(),
		labeler:   address.FieldLabels,
		ajaxEvent: "change",
		titles: map[string]string{
			KeyCountryCode:         "Country",
			KeyLimitByPostalCode:   "Limit by postal code",
			KeyIncludedPostalCodes: "Included postal codes",
			KeyExcludedPostalCodes: "Excluded postal codes",
		},
	}
}
