package pipeline

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength is the listing excerpt size in characters.
const ExcerptLength = 120

var excerptPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// Excerpt returns the visible text of markup, whitespace-collapsed and cut to
// at most limit characters. Script and style contents are dropped.
func Excerpt(markup string, limit int) string {
	if markup == "" || limit <= 0 {
		return ""
	}

	text := html.UnescapeString(excerptPolicy.Sanitize(markup))
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit]))
}
