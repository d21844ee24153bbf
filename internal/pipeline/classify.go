package pipeline

import (
	"path/filepath"
	"strings"
)

// Recognized input extensions (lowercase, without dot).
var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// Extension returns the lowercase extension of path without the dot, or ""
// when the base name has none. A leading dot alone (".png") does not start
// an extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsEligible reports whether path names an image this tool converts.
func IsEligible(path string) bool {
	return imageExtensions[Extension(path)]
}
