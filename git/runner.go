// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.GitRunner = (*Runner)(nil)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Diff returns the unified diff between rev and the working tree of the
// repository at repoPath. Paths in the diff are relative to repoPath.
func (r *Runner) Diff(ctx context.Context, repoPath, rev string) (string, error) {
	args := []string{"-C", repoPath, "diff", "--no-color", "--no-ext-diff", "--relative", rev, "--"}
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git diff failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git diff failed: %w", err)
	}
	return string(output), nil
}
