package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = []string{".jpg", ".png"}

// ImageLocator finds product photos named after the stone, with spaces
// replaced by underscores.
type ImageLocator struct {
	dir string
}

func NewImageLocator(dir string) *ImageLocator {
	return &ImageLocator{dir: dir}
}

// Find returns the first existing image path for name, or "" when none exists.
func (l *ImageLocator) Find(name string) string {
	if l == nil || name == "" {
		return ""
	}
	base := strings.ReplaceAll(name, " ", "_")
	if strings.ContainsAny(base, `/\`) || base == ".." {
		return ""
	}
	for _, ext := range imageExtensions {
		p := filepath.Join(l.dir, base+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Dir returns the directory probed by Find. The router serves the same
// directory, so URLs built from Find results resolve.
func (l *ImageLocator) Dir() string {
	if l == nil {
		return ""
	}
	return l.dir
}
