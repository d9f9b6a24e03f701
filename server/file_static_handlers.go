package server

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// staticHandler serves the embedded assets by request path, so
// /css/style.css is static/css/style.css.
func (s *Server) staticHandler() http.HandlerFunc {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create static sub filesystem: " + err.Error())
	}
	files := http.FileServerFS(assets)

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if info, err := fs.Stat(assets, name); err != nil || info.IsDir() {
			if err == nil {
				err = fs.ErrNotExist
			}
			logError(r.Method, r.URL.Path, err)
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		files.ServeHTTP(w, r)
	}
}
