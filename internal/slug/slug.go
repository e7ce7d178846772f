// Package slug derives URL path segments from titles, subjects and asset
// file names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord     = regexp.MustCompile(`[^a-z0-9]+`)
	nonFileWord = regexp.MustCompile(`[^a-z0-9.]+`)
)

// fold strips combining marks so "Biología" slugs to "biologia" rather than
// "biolog-a".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Make lowercases text, folds accents and collapses every run of characters
// outside [a-z0-9] into a single hyphen. Leading and trailing hyphens are
// trimmed. "Computer Science" -> "computer-science".
func Make(text string) string {
	s := nonWord.ReplaceAllString(strings.ToLower(fold(text)), "-")
	return strings.Trim(s, "-")
}

// File is Make for asset file names: dots survive so "Logo Final.PNG"
// becomes "logo-final.png".
func File(name string) string {
	s := nonFileWord.ReplaceAllString(strings.ToLower(fold(name)), "-")
	return strings.Trim(s, "-")
}

// Unique appends a millisecond timestamp to base when taken reports that base
// is already used within its subject.
func Unique(base string, taken bool, now time.Time) string {
	if !taken {
		return base
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
