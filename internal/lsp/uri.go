package lsp

import (
	"net/url"
	"path/filepath"
	"runtime"
)

// FilePathToURI converts a filesystem path to a file:// DocumentURI, the
// form every LSP text document identifier is addressed by on the wire.
func FilePathToURI(path string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(path) >= 2 && path[1] == ':' {
		path = "/" + path
	}
	u := &url.URL{Scheme: "file", Path: path}
	return u.String()
}

// URIToFilePath converts a file:// DocumentURI back to a filesystem
// path. URIs with a different scheme are returned unchanged.
func URIToFilePath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	path := u.Path
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
