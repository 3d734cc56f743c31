package schema

import (
	"regexp"
	"strings"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s\v\x{2028}\x{2029}\x{FEFF}\p{Zs}_-]+`)
	slugSeparators = regexp.MustCompile(`[\s\v\x{2028}\x{2029}\x{FEFF}\p{Zs}_]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// DeriveSlug turns a title into a URL-safe identifier: lowercase letters,
// digits and single hyphens, never starting or ending with a hyphen.
// Underscores separate words like whitespace does, and whitespace includes
// vertical tab, line and paragraph separators and the byte order mark.
func DeriveSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
