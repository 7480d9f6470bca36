package mock

import (
	"context"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var (
	_ docblocks.Viewer    = (*Viewer)(nil)
	_ docblocks.Clipboard = (*Clipboard)(nil)
)

// Viewer is a mock implementation of docblocks.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, doc *docblocks.Document) error
}

func (v *Viewer) View(ctx context.Context, doc *docblocks.Document) error {
	return v.ViewFn(ctx, doc)
}

// Clipboard is a mock implementation of docblocks.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
