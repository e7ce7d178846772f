package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// DocumentParts holds the three author buffers plus an optional title.
// Markup, Styles and Script are inserted verbatim.
type DocumentParts struct {
	Title  string
	Markup string
	Styles string
	Script string
}

const (
	documentHead = "<!DOCTYPE html>\n" +
		"<html>\n" +
		"<head>\n" +
		"<meta charset=\"UTF-8\">\n" +
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n"
)

// AssembleDocument builds a standalone HTML document: styles inside a single
// <style> in the head, markup as the body, script in a single <script> at the
// end of the body. Only the title is escaped.
func AssembleDocument(p DocumentParts) string {
	var b strings.Builder
	b.Grow(len(documentHead) + len(p.Title) + len(p.Markup) + len(p.Styles) + len(p.Script) + 128)

	b.WriteString(documentHead)
	if p.Title != "" {
		b.WriteString("<title>")
		b.WriteString(html.EscapeString(p.Title))
		b.WriteString("</title>\n")
	}
	b.WriteString("<style>")
	b.WriteString(p.Styles)
	b.WriteString("</style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString(p.Markup)
	b.WriteString("\n<script>")
	b.WriteString(p.Script)
	b.WriteString("</script>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>")

	return b.String()
}

// wrapperPattern matches the outer tags of a full HTML document. The head is
// removed together with its contents; custom elements such as <header> or
// <body-part> are not touched.
var wrapperPattern = regexp.MustCompile(`(?is)<!doctype[^>]*>|<html(?:\s[^>]*)?>|</html\s*>|<head(?:\s[^>]*)?>.*?</head\s*>|<body(?:\s[^>]*)?>|</body\s*>`)

// StripDocumentWrapper removes doctype, html, head and body tags from markup
// so a pasted full document can be embedded as body content. Everything else,
// whitespace included, is kept as written.
func StripDocumentWrapper(markup string) string {
	if markup == "" {
		return markup
	}
	return wrapperPattern.ReplaceAllString(markup, "")
}
