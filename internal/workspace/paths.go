package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace is returned when a path resolves outside the root.
var ErrOutsideWorkspace = errors.New("path is outside the workspace")

// NormalizeRelPath normalizes a workspace-relative path:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// NormalizeExtension lowercases ext and adds the leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ValidateWithin checks that abs, after cleaning, is root or below it.
func ValidateWithin(root, abs string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(abs))
	if err != nil {
		return fmt.Errorf("%s: %w", abs, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%s: %w", abs, ErrOutsideWorkspace)
	}
	return nil
}
