// Package chroma implements docblocks lexers on top of the chroma library.
package chroma

import (
	"errors"
	"fmt"
	"iter"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.Lexer = (*Lexer)(nil)

// Lexer classifies source text with a chroma lexer.
type Lexer struct {
	lexer chromalib.Lexer
}

// NewLexer wraps a chroma lexer.
func NewLexer(lexer chromalib.Lexer) (*Lexer, error) {
	if lexer == nil {
		return nil, errors.New("chroma: lexer cannot be nil")
	}
	// Coalesce for fewer tokens on runs of the same type
	return &Lexer{lexer: chromalib.Coalesce(lexer)}, nil
}

// Name returns the chroma language name, e.g. "C++".
func (l *Lexer) Name() string {
	return l.lexer.Config().Name
}

// Tokens tokenizes source with full context, so multi-line constructs like
// /* */ comments come out as single tokens.
func (l *Lexer) Tokens(source string) (iter.Seq[docblocks.Token], error) {
	iterator, err := l.lexer.Tokenise(nil, source)
	if err != nil {
		return nil, fmt.Errorf("chroma: tokenise %s: %w", l.Name(), err)
	}

	return func(yield func(docblocks.Token) bool) {
		for token := iterator(); token != chromalib.EOF; token = iterator() {
			if !yield(docblocks.Token{Kind: KindOf(token.Type), Text: token.Value}) {
				return
			}
		}
	}, nil
}
