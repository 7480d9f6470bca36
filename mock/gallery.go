package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var (
	_ docblocks.Processor     = (*Processor)(nil)
	_ docblocks.Reporter      = (*Reporter)(nil)
	_ docblocks.DocumentStore = (*DocumentStore)(nil)
)

// Processor is a mock implementation of docblocks.Processor.
type Processor struct {
	ProcessFn func(ctx context.Context, paths []string) ([]docblocks.FileResult, error)
}

func (p *Processor) Process(ctx context.Context, paths []string) ([]docblocks.FileResult, error) {
	return p.ProcessFn(ctx, paths)
}

// Reporter is a mock implementation of docblocks.Reporter.
type Reporter struct {
	ReportFn func(path string, d docblocks.Diagnostic)
}

func (r *Reporter) Report(path string, d docblocks.Diagnostic) {
	r.ReportFn(path, d)
}

// DocumentStore is a mock implementation of docblocks.DocumentStore.
type DocumentStore struct {
	SaveFn func(w io.Writer, docs []*docblocks.Document) error
	LoadFn func(r io.Reader) ([]*docblocks.Document, error)
}

func (s *DocumentStore) Save(w io.Writer, docs []*docblocks.Document) error {
	return s.SaveFn(w, docs)
}

func (s *DocumentStore) Load(r io.Reader) ([]*docblocks.Document, error) {
	return s.LoadFn(r)
}
