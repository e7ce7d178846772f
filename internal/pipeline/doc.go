// Package pipeline implements the text transformations behind every page the
// hub serves.
//
// The two core stages are pure functions over strings:
//   - Asset resolution: rewriting assets/<name> references in markup, styles
//     and script into the absolute URLs of the owner's uploaded files
//   - Document assembly: combining the three buffers into one standalone
//     HTML document for a sandboxed iframe
//
// Around them sit the helpers the host pages need: wrapper stripping for
// pasted full documents, the listing-card overlay, guide rendering via
// Goldmark, source highlighting via Chroma, and plain-text excerpts.
//
// Nothing in this package escapes author markup or script. Isolation is the
// job of the iframe sandbox that displays the result.
package pipeline
