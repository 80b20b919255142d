// Package web carries the embedded single-page claim form UI.
package web

import "embed"

// Assets holds the static UI files served at the server root.
//
//go:embed index.html
var Assets embed.FS
