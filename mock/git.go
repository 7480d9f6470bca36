package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var (
	_ docblocks.GitRunner  = (*GitRunner)(nil)
	_ docblocks.DiffParser = (*DiffParser)(nil)
)

// GitRunner is a mock implementation of docblocks.GitRunner.
type GitRunner struct {
	DiffFn func(ctx context.Context, repoPath, rev string) (string, error)
}

func (g *GitRunner) Diff(ctx context.Context, repoPath, rev string) (string, error) {
	return g.DiffFn(ctx, repoPath, rev)
}

// DiffParser is a mock implementation of docblocks.DiffParser.
type DiffParser struct {
	ChangedPathsFn func(r io.Reader) ([]string, error)
}

func (p *DiffParser) ChangedPaths(r io.Reader) ([]string, error) {
	return p.ChangedPathsFn(r)
}
