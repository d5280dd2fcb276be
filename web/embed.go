// Package web holds the built frontend. The SPA build writes its output
// (including .br/.gz siblings) into dist/ before `go build`.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var dist embed.FS

// Dist returns the embedded build rooted at dist/.
func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}
