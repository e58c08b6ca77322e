package valkeycache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-geoform/pkg/address"
)

const (
	defaultPrefix = "geoform:address:"
	defaultTTL    = time.Hour
)

type config struct {
	prefix  string
	ttl     time.Duration
	onError func(error)
}

// Option customises Wrap.
type Option func(*config)

// WithTTL sets how long entries live. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithPrefix namespaces every key.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithErrorHandler receives cache failures. They never fail a lookup.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// Wrap decorates next with a read-through cache. Lookups that fail in next
// are not cached.
func Wrap(next address.Repositories, cache Cache, opts ...Option) address.Repositories {
	if cache == nil {
		return next
	}
	cfg := config{prefix: defaultPrefix, ttl: defaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	rt := readThrough{cache: cache, cfg: cfg}
	return address.Repositories{
		Countries:    countries{next: next.Countries, rt: rt},
		Formats:      formats{next: next.Formats, rt: rt},
		Subdivisions: subdivisions{next: next.Subdivisions, rt: rt},
	}
}

type readThrough struct {
	cache Cache
	cfg   config
}

func (rt readThrough) load(ctx context.Context, key string, target any) bool {
	raw, err := rt.cache.Get(ctx, rt.cfg.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			rt.report(err)
		}
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		rt.report(err)
		return false
	}
	return true
}

func (rt readThrough) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		rt.report(err)
		return
	}
	if err := rt.cache.Set(ctx, rt.cfg.prefix+key, raw, rt.cfg.ttl); err != nil {
		rt.report(err)
	}
}

func (rt readThrough) report(err error) {
	if rt.cfg.onError != nil {
		rt.cfg.onError(err)
	}
}

type countries struct {
	next address.CountryRepository
	rt   readThrough
}

func (c countries) List(ctx context.Context) ([]address.Country, error) {
	var cached []address.Country
	if c.rt.load(ctx, "countries", &cached) {
		return cached, nil
	}
	list, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.rt.store(ctx, "countries", list)
	return list, nil
}

type formats struct {
	next address.FormatRepository
	rt   readThrough
}

func (f formats) Get(ctx context.Context, countryCode string) (address.Format, error) {
	key := "format:" + strings.ToUpper(strings.TrimSpace(countryCode))
	var cached address.Format
	if f.rt.load(ctx, key, &cached) {
		return cached, nil
	}
	format, err := f.next.Get(ctx, countryCode)
	if err != nil {
		return address.Format{}, err
	}
	f.rt.store(ctx, key, format)
	return format, nil
}

type subdivisions struct {
	next address.SubdivisionRepository
	rt   readThrough
}

func (s subdivisions) List(ctx context.Context, parents []string) ([]address.Subdivision, error) {
	key := "subdivisions:" + address.ParentKey(parents)
	var cached []address.Subdivision
	if s.rt.load(ctx, key, &cached) {
		return cached, nil
	}
	list, err := s.next.List(ctx, parents)
	if err != nil {
		return nil, err
	}
	s.rt.store(ctx, key, list)
	return list, nil
}
