package assets

// Names of the built-in assets.
const (
	DefaultStyleName = "site"
	GuideDocument    = "guide"

	LayoutTemplate   = "layout"
	IndexTemplate    = "index"
	ContentTemplate  = "content"
	SourceTemplate   = "source"
	GuideTemplate    = "guide"
	NotFoundTemplate = "notfound"
)

// PageTemplates lists every page template the server renders inside the layout.
var PageTemplates = []string{
	IndexTemplate,
	ContentTemplate,
	SourceTemplate,
	GuideTemplate,
	NotFoundTemplate,
}

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in stylesheet by name (without .css).
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in page template by name (without .html).
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadDocument loads a built-in Markdown document by name (without .md).
func LoadDocument(name string) (string, error) {
	return defaultLoader.LoadDocument(name)
}
