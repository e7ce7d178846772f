// Package store persists published content, uploaded asset records and the
// subject categories derived from them in SQLite.
//
// The schema is created on Open if missing. There are no migrations.
//
// Store never renders anything. The host reads a Content and the owner's
// assets once per request and hands both to the renderer.
package store
