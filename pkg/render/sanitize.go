package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce   sync.Once
	textPolicy       *bluemonday.Policy
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from raw and escapes what is left, ready to
// be written into HTML as is.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(trimmed))
}

// SanitizeMarkup keeps the small set of layout elements field markup is
// built from, with class and data-* attributes.
func SanitizeMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("div", "span", "p", "strong", "em", "small", "br")
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
		markupPolicy = policy
	})
	return markupPolicy
}
