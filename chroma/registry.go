package chroma

import (
	"path/filepath"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.LexerRegistry = (*Registry)(nil)

// Registry resolves lexers from chroma's built-in lexer set.
type Registry struct{}

// NewRegistry creates a new chroma-backed lexer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns the lexer registered under name or alias, or nil.
func (r *Registry) Get(name string) docblocks.Lexer {
	return wrap(lexers.Get(name))
}

// Match returns the lexer for filename, or nil if the language cannot be
// determined. Only the base name takes part in matching.
func (r *Registry) Match(filename string) docblocks.Lexer {
	return wrap(lexers.Match(filepath.Base(filename)))
}

// wrap avoids returning a typed nil inside the interface.
func wrap(lexer chromalib.Lexer) docblocks.Lexer {
	if lexer == nil {
		return nil
	}
	l, err := NewLexer(lexer)
	if err != nil {
		return nil
	}
	return l
}
