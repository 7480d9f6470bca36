// Package mock provides test doubles for docblocks interfaces.
package mock

import (
	"iter"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var (
	_ docblocks.Lexer         = (*Lexer)(nil)
	_ docblocks.LexerRegistry = (*LexerRegistry)(nil)
)

// Lexer is a mock implementation of docblocks.Lexer.
type Lexer struct {
	NameFn   func() string
	TokensFn func(source string) (iter.Seq[docblocks.Token], error)
}

func (l *Lexer) Name() string {
	return l.NameFn()
}

func (l *Lexer) Tokens(source string) (iter.Seq[docblocks.Token], error) {
	return l.TokensFn(source)
}

// LexerRegistry is a mock implementation of docblocks.LexerRegistry.
type LexerRegistry struct {
	GetFn   func(name string) docblocks.Lexer
	MatchFn func(filename string) docblocks.Lexer
}

func (r *LexerRegistry) Get(name string) docblocks.Lexer {
	return r.GetFn(name)
}

func (r *LexerRegistry) Match(filename string) docblocks.Lexer {
	return r.MatchFn(filename)
}
