//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// IsDev reports whether the binary was built with the dev tag.
const IsDev = true

// staticDir locates static/ next to this source file, so the binary can be
// run from any directory.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler serves static files straight from the filesystem, so CSS edits
// show up on reload.
func Handler(logger *slog.Logger) http.Handler {
	dir := staticDir()
	logger.Info("static assets served from filesystem", "path", dir)
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(dir))))
}
