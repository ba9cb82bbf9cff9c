// backend/src/security/validation/sanitizers.go
package validation

import (
	"github.com/microcosm-cc/bluemonday"
)

var (
	// Strict policy: strips every HTML tag and attribute.
	strictHTMLPolicy *bluemonday.Policy
)

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy()
}

// SanitizeText removes all HTML tags and attributes from an input string.
// Applied to guest-supplied free text (names, notes, addresses) at the
// persistence boundary.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}
