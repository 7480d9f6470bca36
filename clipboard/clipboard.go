// Package clipboard provides clipboard operations backed by the platform's
// clipboard utilities.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fwojciec/docblocks"
)

// Ensure System implements the Clipboard interface.
var _ docblocks.Clipboard = (*System)(nil)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// System implements Clipboard using pbcopy, xclip, xsel, wl-copy or the
// Windows clipboard, whichever the platform provides.
type System struct{}

// NewSystem returns a new System clipboard.
func NewSystem() *System {
	return &System{}
}

// Copy writes content to the system clipboard.
func (s *System) Copy(content string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Paste reads the system clipboard.
func (s *System) Paste() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: %w", err)
	}
	return content, nil
}
