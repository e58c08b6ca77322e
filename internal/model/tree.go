package model

import (
	"regexp"
	"sort"
	"strings"
)

// Clone returns a deep copy of the field so callers can derive new trees
// without sharing slices or maps with the original.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.EmptyOption != nil {
		opt := *f.EmptyOption
		out.EmptyOption = &opt
	}
	if f.Value != nil {
		value := *f.Value
		out.Value = &value
	}
	if f.Ajax != nil {
		ajax := *f.Ajax
		out.Ajax = &ajax
	}
	if f.Visibility != nil {
		binding := *f.Visibility
		out.Visibility = &binding
	}
	if f.Attributes != nil {
		out.Attributes = make(map[string]string, len(f.Attributes))
		for k, v := range f.Attributes {
			out.Attributes[k] = v
		}
	}
	if f.Classes != nil {
		out.Classes = append([]string(nil), f.Classes...)
	}
	if f.Libraries != nil {
		out.Libraries = append([]string(nil), f.Libraries...)
	}
	if f.Children != nil {
		out.Children = make([]Field, len(f.Children))
		for i, child := range f.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Child returns the direct child registered under key.
func (f Field) Child(key string) (Field, bool) {
	for _, child := range f.Children {
		if child.Key == key {
			return child, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	out := Tree{ID: t.ID}
	if t.Parents != nil {
		out.Parents = append([]string(nil), t.Parents...)
	}
	if t.Fields != nil {
		out.Fields = make([]Field, len(t.Fields))
		for i, field := range t.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Field looks up a top-level field by key.
func (t Tree) Field(key string) (Field, bool) {
	for _, field := range t.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Has reports whether a top-level field is registered under key.
func (t Tree) Has(key string) bool {
	_, ok := t.Field(key)
	return ok
}

// Keys lists the top-level field keys in tree order.
func (t Tree) Keys() []string {
	if len(t.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.Fields))
	for _, field := range t.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// With returns a copy of the tree where field replaces the entry sharing its
// key, or is appended when no such entry exists.
func (t Tree) With(field Field) Tree {
	out := t.Clone()
	for i := range out.Fields {
		if out.Fields[i].Key == field.Key {
			out.Fields[i] = field.Clone()
			return out
		}
	}
	out.Fields = append(out.Fields, field.Clone())
	return out
}

// Without returns a copy of the tree minus the supplied keys.
func (t Tree) Without(keys ...string) Tree {
	if len(keys) == 0 {
		return t.Clone()
	}
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		drop[key] = struct{}{}
	}
	out := t.Clone()
	kept := out.Fields[:0]
	for _, field := range out.Fields {
		if _, ok := drop[field.Key]; ok {
			continue
		}
		kept = append(kept, field)
	}
	out.Fields = kept
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	return out
}

// Update applies fn to the field registered under key and returns the new
// tree. The tree is returned unchanged when key is unknown.
func (t Tree) Update(key string, fn func(Field) Field) Tree {
	out := t.Clone()
	for i := range out.Fields {
		if out.Fields[i].Key == key {
			out.Fields[i] = fn(out.Fields[i].Clone())
			return out
		}
	}
	return out
}

// Ordered returns the top-level fields sorted by weight. Fields sharing a
// weight keep their insertion order.
func (t Tree) Ordered() []Field {
	if len(t.Fields) == 0 {
		return nil
	}
	out := make([]Field, len(t.Fields))
	copy(out, t.Fields)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight < out[j].Weight
	})
	return out
}

// StringPtr is a small helper for populating Field.Value.
func StringPtr(value string) *string {
	return &value
}

var (
	invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9\-_]`)
	dashRuns       = regexp.MustCompile(`-{2,}`)
)

// CleanID converts an arbitrary identifier into a valid, lowercase HTML id.
// Spaces, underscores and brackets become dashes; anything else outside
// [A-Za-z0-9-_] is dropped.
func CleanID(raw string) string {
	replacer := strings.NewReplacer(" ", "-", "_", "-", "[", "-", "]", "")
	id := strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
	id = invalidIDChars.ReplaceAllString(id, "")
	id = dashRuns.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}

// InputName renders the nested form input name for key below parents, e.g.
// ["zone", "territory"] + "country_code" -> zone[territory][country_code].
func InputName(parents []string, key string) string {
	segments := make([]string, 0, len(parents)+1)
	for _, parent := range parents {
		if trimmed := strings.TrimSpace(parent); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if key = strings.TrimSpace(key); key != "" {
		segments = append(segments, key)
	}
	if len(segments) == 0 {
		return ""
	}
	if len(segments) == 1 {
		return segments[0]
	}
	return segments[0] + "[" + strings.Join(segments[1:], "][") + "]"
}
