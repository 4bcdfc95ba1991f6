package devserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// newStaticHandler serves files from dir. Paths without a file extension that
// do not exist fall back to index.html so client-side routes resolve.
func newStaticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		full := filepath.Join(dir, filepath.FromSlash(clean))

		if info, err := os.Stat(full); err == nil {
			if !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
			if _, err := os.Stat(filepath.Join(full, "index.html")); err == nil {
				files.ServeHTTP(w, r)
				return
			}
		}

		if path.Ext(clean) == "" {
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, r, index)
				return
			}
		}

		http.NotFound(w, r)
	})
}
