package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS embeds the page templates and static assets
//
//go:embed templates static
var FS embed.FS

// Templates returns the page templates
func Templates() fs.FS {
	sub, err := fs.Sub(FS, "templates")
	if err != nil {
		// The directory is embedded at build time
		panic(err)
	}
	return sub
}

// Static returns the static assets for HTTP serving
func Static() http.FileSystem {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
