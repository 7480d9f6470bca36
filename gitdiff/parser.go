// Package gitdiff implements diff parsing using bluekeyes/go-gitdiff.
package gitdiff

import (
	"io"
	"slices"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.DiffParser = (*Parser)(nil)

// Parser parses unified diff content using go-gitdiff.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ChangedPaths returns the sorted, de-duplicated paths of files that still
// exist after the diff. Deleted and binary files are skipped; renamed and
// copied files are reported under their new name.
func (p *Parser) ChangedPaths(r io.Reader) ([]string, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDelete || f.IsBinary || f.NewName == "" {
			continue
		}
		paths = append(paths, f.NewName)
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}
