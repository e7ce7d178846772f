// Package server is the rendering host. It serves the public listing, the
// host page of every published item, the assembled documents shown in
// sandboxed iframes, snapshot exports and a small JSON API.
//
// Documents are assembled per request from the stored bundle and the owner's
// assets, fetched once so every reference in a response resolves against the
// same list.
package server
