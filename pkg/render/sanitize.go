package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// SanitizeDescription strips unsafe markup from a field description.
func SanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		descriptionPolicy = policy
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(trimmed))
}
