// Package workspace exposes a directory of play logs as an index.Source.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// DefaultExtensions are the document extensions indexed when none are
// configured.
var DefaultExtensions = []string{".md"}

// skipDirs are never descended into.
var skipDirs = []string{".lonelog", ".git", ".trash", "node_modules"}

// Options configures a FileSource.
type Options struct {
	// Extensions are the file extensions to list. Empty means DefaultExtensions.
	Extensions []string

	// Ignore lists extra directory names to skip anywhere in the tree.
	Ignore []string
}

// FileSource reads documents from a directory tree. Paths it accepts and
// returns are workspace-relative with forward slashes.
type FileSource struct {
	root       string
	extensions []string
	ignore     []string
}

// New creates a FileSource rooted at root.
func New(root string, opts Options) (*FileSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", abs)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	src := &FileSource{root: abs, ignore: append(slices.Clone(skipDirs), opts.Ignore...)}
	for _, e := range exts {
		if e = NormalizeExtension(e); e != "" {
			src.extensions = append(src.extensions, e)
		}
	}
	return src, nil
}

// Root returns the absolute workspace directory.
func (s *FileSource) Root() string {
	return s.root
}

// Abs converts a workspace-relative path into an absolute one, rejecting
// paths that escape the workspace.
func (s *FileSource) Abs(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(NormalizeRelPath(rel)))
	if err := ValidateWithin(s.root, abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Rel converts an absolute path under the workspace into its relative form.
func (s *FileSource) Rel(abs string) (string, error) {
	if err := ValidateWithin(s.root, abs); err != nil {
		return "", err
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Accepts reports whether rel has a listed extension.
func (s *FileSource) Accepts(rel string) bool {
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(rel)))
}

// Skips reports whether a directory with this name is excluded.
func (s *FileSource) Skips(dirName string) bool {
	return slices.Contains(s.ignore, dirName)
}

// SkipsPath reports whether any directory component of rel is excluded.
func (s *FileSource) SkipsPath(rel string) bool {
	parts := strings.Split(NormalizeRelPath(rel), "/")
	for _, p := range parts[:len(parts)-1] {
		if s.Skips(p) {
			return true
		}
	}
	return false
}

// List returns every document path in the workspace, sorted. Unreadable
// subdirectories are skipped.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != s.root && s.Skips(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := s.Rel(path)
		if err != nil {
			if errors.Is(err, ErrOutsideWorkspace) {
				return nil
			}
			return err
		}
		if s.Accepts(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	sort.Strings(out)
	return out, nil
}

// ReadText returns the contents of the document at rel.
func (s *FileSource) ReadText(_ context.Context, rel string) (string, error) {
	abs, err := s.Abs(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Mtime returns the modification time of rel as Unix seconds.
func (s *FileSource) Mtime(rel string) (int64, error) {
	abs, err := s.Abs(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return 0, err
	}
	return info.ModTime().Unix(), nil
}
