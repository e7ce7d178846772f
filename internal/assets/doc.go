// Package assets provides the stylesheet, page templates and usage guide the
// hub's host pages are built from.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from a site directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// A deployment can override any single file by placing it under the
// configured base path; everything else keeps the embedded default.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	├── templates/
//	│   └── {name}.html
//	└── docs/
//	    └── {name}.md
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
//
// These are the hub's own files. Files uploaded by authors live in the store
// and are referenced by URL.
package assets
