package api

import (
	"net/http"
	"strings"
)

func staticHandler(fileServer http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		// The app has a single page; unknown paths without an extension get it too.
		if path != "/" && !strings.Contains(path, ".") {
			r.URL.Path = "/"
		}
		// The service worker owns caching of the app shell.
		if r.URL.Path == "/" || strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".webmanifest") {
			w.Header().Set("Cache-Control", "no-cache")
		}
		fileServer.ServeHTTP(w, r)
	})
}
