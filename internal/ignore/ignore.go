// Package ignore decides which paths are excluded from repository analysis.
package ignore

import (
	"path/filepath"
	"strings"
)

// Directories and files that never count as source. Covers VCS internals,
// bytecode caches, OS metadata, dependency trees and IDE state.
var ignoredNames = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"__pycache__":  {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
	".vscode":      {},
	".idea":        {},
	".vs":          {},
	".DS_Store":    {},
	"Thumbs.db":    {},
}

// Volatile file extensions excluded regardless of location.
var ignoredExtensions = map[string]struct{}{
	".pyc":   {},
	".pyo":   {},
	".log":   {},
	".tmp":   {},
	".cache": {},
	".swp":   {},
}

// Match reports whether path, or any of its segments, is excluded from
// analysis. Hidden (dot-prefixed) segments are always excluded. The path may
// be absolute or relative; matching is purely structural.
func Match(path string) bool {
	if path == "" || path == "." {
		return false
	}
	if _, ok := ignoredExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if _, ok := ignoredNames[part]; ok {
			return true
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
