// Package web embeds the single-page gallery client and serves it over HTTP.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler serves the SPA's assets under the /static/ URL prefix.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Index serves the SPA entry document. Mounted as the catch-all so client-
// side routes resolve to the app on hard refresh.
func Index(w http.ResponseWriter, r *http.Request) {
	index, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}
