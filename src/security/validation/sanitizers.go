// src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags

// SanitizeText strips markup and unprintable runes from text that came out of an
// uploaded file before it is stored or echoed back. The result is plain text, not HTML:
// entities produced by the policy are decoded again, and a lone '<' or '&' is kept.
func SanitizeText(s string) string {
	s = StripUnprintable(s)
	if containsMarkup(s) {
		s = html.UnescapeString(strictHTMLPolicy.Sanitize(s))
	}
	return strings.TrimSpace(s)
}

// containsMarkup reports whether s has a '<' later closed by a '>'.
func containsMarkup(s string) bool {
	open := strings.IndexByte(s, '<')
	return open >= 0 && strings.IndexByte(s[open:], '>') > 0
}

// SanitizeOptional applies SanitizeText to an optional field.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	return &clean
}

// StripUnprintable removes non-printable characters, allowing tab, newline and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
