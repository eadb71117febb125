package core

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// ServeRoot is the directory the local server is rooted at: two levels above
// the figure, so that sibling figures and shared libraries resolve.
func ServeRoot(figureDir string) string {
	return filepath.Dir(filepath.Dir(filepath.Clean(figureDir)))
}

// AssetPath is the slash-separated location of figureDir relative to root.
func AssetPath(root, figureDir string) (string, error) {
	rel, err := filepath.Rel(root, figureDir)
	if err != nil {
		return "", err
	}

	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("figure %s is not below %s", figureDir, root)
	}

	return rel, nil
}

func ServerAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func PreviewURL(host string, port int, assetPath string, mode PreviewMode) string {
	return "http://" + ServerAddr(host, port) + NormalizePath(assetPath) + "/" + BuildDirName + "/" + PreviewFileName(mode)
}

// ThemedPreviewURL is PreviewURL with the theme the page applies before the
// figure module runs.
func ThemedPreviewURL(host string, port int, assetPath string, mode PreviewMode, theme Theme) string {
	return PreviewURL(host, port, assetPath, mode) + "?" + url.Values{"theme": {string(theme)}}.Encode()
}
