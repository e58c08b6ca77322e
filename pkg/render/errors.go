package render

import (
	"strings"

	"github.com/goliatone/go-geoform/pkg/model"
)

// ErrorMapping splits a validation payload into field-level and form-level
// messages. Field paths are dotted key paths through the tree, e.g.
// "administrative_area" or "0.lat" for the lat input of the first map item.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Errors flattens the mapping into the RenderOptions.Errors shape.
func (m ErrorMapping) Errors() map[string][]string {
	if len(m.Fields) == 0 && len(m.Form) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m.Fields)+1)
	for path, messages := range m.Fields {
		out[path] = append([]string(nil), messages...)
	}
	if len(m.Form) > 0 {
		out[FormErrorsKey] = append([]string(nil), m.Form...)
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves server error paths against the fields of a tree.
// Paths may be JSON pointers ("/zone/territory/locality"), dotted paths or
// nested input names ("field_map[0][lat]"); the longest field path
// matching a run of consecutive segments wins. Unknown paths become form-level
// errors so messages are not lost.
func MapErrorPayload(fields []model.Field, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{})
	collectFieldPaths(fields, "", known)

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		path, ok := matchFieldPath(rawPath, known)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func matchFieldPath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := parsePathSegments(raw)
	best, bestLen := "", 0
	for start := range segments {
		for end := len(segments); end-start > bestLen; end-- {
			candidate := strings.Join(segments[start:end], ".")
			if _, ok := known[candidate]; ok {
				best, bestLen = candidate, end-start
				break
			}
		}
	}
	return best, best != ""
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func collectFieldPaths(fields []model.Field, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		dest[path] = struct{}{}
		collectFieldPaths(field.Children, path, dest)
	}
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", FormErrorsKey, "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
