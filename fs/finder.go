// Package fs discovers gallery example files on the local file system.
package fs

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.Finder = (*Finder)(nil)

// Finder walks a directory and selects files by doublestar glob patterns
// evaluated against slash-separated paths relative to the walked root.
type Finder struct {
	include []string
	exclude []string
}

// NewFinder creates a Finder. A file is returned when it matches at least one
// include pattern and no exclude pattern.
func NewFinder(include, exclude []string) (*Finder, error) {
	for _, pattern := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("fs: invalid pattern %q", pattern)
		}
	}
	return &Finder{include: include, exclude: exclude}, nil
}

// Find returns the matching files under root, sorted, each joined with root.
func (f *Finder) Find(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("fs: relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (matchesAny(rel, f.exclude) || matchesAny(rel+"/", f.exclude)) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(rel, f.include) && !matchesAny(rel, f.exclude) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs: walk %s: %w", root, err)
	}

	slices.Sort(files)
	return files, nil
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
