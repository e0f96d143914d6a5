package app

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag; notes are plain text.
var textPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the unescape loop for nested entity encodings.
const maxSanitizePasses = 8

// sanitizeText removes markup from free text and trims surrounding space.
// Entities are turned back into characters so plain text such as "R&D"
// survives a round trip. Unescaping can expose markup that was hidden as
// entities, so the text is sanitized again until it no longer changes.
func sanitizeText(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// Still changing: keep the escaped form rather than risk live markup.
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// cleanString trims a plain single-line field.
func cleanString(s string) string {
	return strings.TrimSpace(s)
}
