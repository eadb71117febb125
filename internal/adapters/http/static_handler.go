package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/genfig/internal/core"
)

// StaticHandler serves files below root and nothing else.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) http.Handler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cleaned := path.Clean(core.NormalizePath(req.URL.Path))
	fullPath := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))

	info, err := os.Stat(fullPath)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	if info.IsDir() {
		fullPath = filepath.Join(fullPath, "index.html")
		info, err = os.Stat(fullPath)
		if err != nil || info.IsDir() {
			http.NotFound(w, req)
			return
		}
	}

	file, err := os.Open(fullPath)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer func() { _ = file.Close() }()

	w.Header().Set("Content-Type", core.GetContentType(fullPath))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, req, info.Name(), info.ModTime(), file)
}
