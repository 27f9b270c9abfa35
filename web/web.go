// Package web holds the upload page served at the root path.
package web

import (
	"embed"
)

//go:embed static
var Static embed.FS

//go:embed static/index.html
var IndexHTML []byte
