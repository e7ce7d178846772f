package assets

// AssetLoader defines the contract for loading the hub's own site files.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML page template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// LoadDocument loads a Markdown document by name (without .md extension).
	// Returns ErrDocumentNotFound if the document doesn't exist.
	LoadDocument(name string) (string, error)
}
