// Package lang maps file extensions to language names.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Extension to language name, lowercase keys. Files with extensions outside
// this table are excluded from language statistics entirely; there is no
// "Other" bucket.
var byExtension = map[string]string{
	".py":         "Python",
	".pyw":        "Python",
	".js":         "JavaScript",
	".mjs":        "JavaScript",
	".ts":         "TypeScript",
	".java":       "Java",
	".cpp":        "C++",
	".cc":         "C++",
	".c":          "C",
	".h":          "C",
	".cs":         "C#",
	".php":        "PHP",
	".rb":         "Ruby",
	".go":         "Go",
	".rs":         "Rust",
	".swift":      "Swift",
	".kt":         "Kotlin",
	".scala":      "Scala",
	".html":       "HTML",
	".htm":        "HTML",
	".css":        "CSS",
	".scss":       "SCSS",
	".sass":       "Sass",
	".less":       "Less",
	".vue":        "Vue",
	".jsx":        "JSX",
	".tsx":        "TSX",
	".md":         "Markdown",
	".markdown":   "Markdown",
	".yml":        "YAML",
	".yaml":       "YAML",
	".json":       "JSON",
	".xml":        "XML",
	".sql":        "SQL",
	".sh":         "Shell",
	".bash":       "Bash",
	".zsh":        "Zsh",
	".dockerfile": "Dockerfile",
	".r":          "R",
	".pl":         "Perl",
}

// ByExtension returns the language for a file path based on its extension.
// Matching is case-insensitive. ok is false for unrecognized extensions.
func ByExtension(path string) (name string, ok bool) {
	name, ok = byExtension[strings.ToLower(filepath.Ext(path))]
	return name, ok
}

// Extensions returns the extensions registered for a language, sorted.
// Returns nil for unknown languages.
func Extensions(language string) []string {
	var exts []string
	for ext, name := range byExtension {
		if name == language {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
