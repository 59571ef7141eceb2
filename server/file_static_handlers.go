package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
)

//go:embed static
var staticFiles embed.FS

var staticFS = mustSub(staticFiles, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("Failed to create sub filesystem: " + err.Error())
	}
	return sub
}

// StaticFilesFS exposes the embedded assets rooted at static/
func StaticFilesFS() fs.FS {
	return staticFS
}

// StaticCSSHandler serves /css/{file} from the embedded stylesheets
func (s *Server) StaticCSSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Join("css", r.PathValue("file"))
		if info, err := fs.Stat(staticFS, name); err != nil || info.IsDir() {
			logError(r.Method, r.URL.Path, "no such asset")
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, staticFS, name)
	}
}
