// Package gallery splits many example files concurrently.
package gallery

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/docblocks"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Compile-time interface verification.
var _ docblocks.Processor = (*Processor)(nil)

// MaxWorkers caps concurrent file splitting.
const MaxWorkers = 64

// Option configures a Processor.
type Option func(*Processor)

// WithWorkers sets the number of concurrent splits. Zero means GOMAXPROCS;
// negative values are ignored.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.workers = n
		}
	}
}

// WithReporter sends every diagnostic to r. The reporter is called from
// several goroutines.
func WithReporter(r docblocks.Reporter) Option {
	return func(p *Processor) {
		p.reporter = r
	}
}

// WithClean strips ignore regions and directive lines from code blocks.
func WithClean(enabled bool) Option {
	return func(p *Processor) {
		p.clean = enabled
	}
}

// Processor splits files in parallel. One parser is built per language and
// shared by all files of that language.
type Processor struct {
	cfg      docblocks.Config
	registry docblocks.LexerRegistry
	reporter docblocks.Reporter
	workers  int
	clean    bool

	mu      sync.Mutex
	parsers map[string]*docblocks.Parser
}

// NewProcessor creates a Processor resolving lexers through registry.
func NewProcessor(cfg docblocks.Config, registry docblocks.LexerRegistry, opts ...Option) *Processor {
	p := &Processor{
		cfg:      cfg,
		registry: registry,
		workers:  cfg.Workers,
		parsers:  make(map[string]*docblocks.Parser),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process splits every path. Results are sorted by path; a file that cannot
// be split carries its error in the result. Only cancellation of ctx fails
// the whole batch.
func (p *Processor) Process(ctx context.Context, paths []string) ([]docblocks.FileResult, error) {
	workers := p.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	results := make([]docblocks.FileResult, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = p.processFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Goroutines finish in any order; callers get stable output.
	slices.SortStableFunc(results, func(a, b docblocks.FileResult) int {
		return strings.Compare(a.Path, b.Path)
	})
	return results, nil
}

func (p *Processor) processFile(path string) docblocks.FileResult {
	result := docblocks.FileResult{Path: path}

	parser, err := p.parserFor(path)
	if err != nil {
		result.Err = err
		return result
	}

	doc, err := parser.SplitFile(path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Document = doc

	if p.reporter != nil {
		for _, d := range doc.Diagnostics {
			p.reporter.Report(path, d)
		}
	}

	if p.clean {
		result.Err = parser.Clean(doc)
	}
	return result
}

// parserFor returns the cached parser for the language of path.
func (p *Processor) parserFor(path string) (*docblocks.Parser, error) {
	lexer, err := docblocks.ResolveLexer(path, p.cfg, p.registry)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if parser, ok := p.parsers[lexer.Name()]; ok {
		return parser, nil
	}
	parser, err := docblocks.NewParserForLexer(lexer, p.cfg)
	if err != nil {
		return nil, err
	}
	p.parsers[lexer.Name()] = parser
	return parser, nil
}
