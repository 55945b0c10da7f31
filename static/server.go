package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed dist
var dist embed.FS

// assetExts lists the file types served straight from the embedded
// build output. Everything else is treated as an app route.
var assetExts = map[string]bool{
	".js":  true,
	".css": true,
	".svg": true,
	".ico": true,
	".png": true,
	".jpg": true,
	".txt": true,
	".map": true,
}

// Handler serves the embedded frontend. Requests for build assets go
// to the file server; any other path gets index.html, so client-side
// routes survive a full page load. Serving index.html by hand keeps
// http.FileServer from issuing its trailing-slash redirects.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	assets := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAsset(r.URL.Path) {
			assets.ServeHTTP(w, r)
			return
		}
		index, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(index)
	})
}

func isAsset(p string) bool {
	return strings.HasPrefix(p, "/assets/") || assetExts[path.Ext(p)]
}
