package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// StrictMessagePolicy returns the shared policy that strips all markup.
func StrictMessagePolicy() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return messagePolicy
}

// SanitizeMessages returns a copy of m with every message passed through
// policy (StrictMessagePolicy when nil). Messages that sanitize to nothing
// are kept as their HTML-escaped original so none disappear.
func SanitizeMessages(m ErrorMap, policy *bluemonday.Policy) ErrorMap {
	if policy == nil {
		policy = StrictMessagePolicy()
	}
	out := make(ErrorMap, len(m))
	for field, entry := range m {
		cleaned := make([]string, 0, len(entry.ErrorList))
		for _, message := range entry.ErrorList {
			cleaned = append(cleaned, sanitizeMessage(policy, message))
		}
		out[field] = FieldErrors{ErrorList: cleaned}
	}
	return out
}

func sanitizeMessage(policy *bluemonday.Policy, message string) string {
	cleaned := strings.TrimSpace(policy.Sanitize(message))
	if cleaned == "" {
		return html.EscapeString(message)
	}
	return cleaned
}
