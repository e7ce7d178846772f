package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlight indicates source highlighting failed.
var ErrHighlight = errors.New("source highlighting failed")

// HighlightStyle is the Chroma style used for the source view and the guide.
const HighlightStyle = "github"

var sourceFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.WithLineNumbers(true),
)

// HighlightSource renders source as class-annotated HTML. language is a Chroma
// lexer name such as "html", "css" or "javascript"; unknown names fall back to
// plain text.
func HighlightSource(language, source string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var b strings.Builder
	if err := sourceFormatter.Format(&b, highlightStyle(), iterator); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}

// HighlightCSS returns the stylesheet for the classes HighlightSource emits.
func HighlightCSS() (string, error) {
	var b strings.Builder
	if err := sourceFormatter.WriteCSS(&b, highlightStyle()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}

func highlightStyle() *chroma.Style {
	style := styles.Get(HighlightStyle)
	if style == nil {
		return styles.Fallback
	}
	return style
}
