//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

// IsDev reports whether the binary was built with the dev tag.
const IsDev = false

//go:embed static/*
var staticFS embed.FS

// Handler serves the embedded static files with long-lived caching.
func Handler(_ *slog.Logger) http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fileServer.ServeHTTP(w, r)
	})
}
