package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. It is used as a
// fallback for catalog records whose CMS entry lacks an explicit slug field.
//
// Examples:
//   - "Bamboo Toothbrush" -> "bamboo-toothbrush"
//   - "Hello   World!" -> "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
