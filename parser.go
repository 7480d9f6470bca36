package docblocks

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Parser splits source files of one language. A Parser is immutable after
// construction and safe for concurrent use.
type Parser struct {
	lexer  Lexer
	syntax *Syntax
	policy MarkerTextPolicy
}

// ResolveLexer picks the lexer for filename. A FiletypeParsers entry for the
// file's suffix takes precedence over filename matching.
func ResolveLexer(filename string, cfg Config, registry LexerRegistry) (Lexer, error) {
	if name, ok := cfg.FiletypeParsers[filepath.Ext(filename)]; ok {
		if lexer := registry.Get(name); lexer != nil {
			return lexer, nil
		}
		return nil, fmt.Errorf("%w: %q configured for %s", ErrNoLexer, name, filepath.Ext(filename))
	}
	if lexer := registry.Match(filename); lexer != nil {
		return lexer, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoLexer, filename)
}

// NewParser resolves the lexer for filename and builds a parser for it.
func NewParser(filename string, cfg Config, registry LexerRegistry) (*Parser, error) {
	lexer, err := ResolveLexer(filename, cfg, registry)
	if err != nil {
		return nil, err
	}
	return NewParserForLexer(lexer, cfg)
}

// NewParserForLexer builds a parser around an already resolved lexer.
func NewParserForLexer(lexer Lexer, cfg Config) (*Parser, error) {
	syntax, err := DetectSyntax(lexer)
	if err != nil {
		return nil, err
	}
	policy := cfg.MarkerText
	if policy == "" {
		policy = MarkerTextKeep
	}
	return &Parser{lexer: lexer, syntax: syntax, policy: policy}, nil
}

// Language returns the name of the parser's lexer.
func (p *Parser) Language() string {
	return p.lexer.Name()
}

// Syntax returns the comment syntax detected for the parser's language.
func (p *Parser) Syntax() *Syntax {
	return p.syntax
}

// SplitFile reads path and splits its content.
func (p *Parser) SplitFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := p.Split(string(data))
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Split extracts the file configuration and splits content into blocks.
// CRLF line endings are normalized first, so line numbers and block content
// are the same for either ending.
func (p *Parser) Split(content string) (*Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	doc := &Document{Language: p.Language()}
	doc.Config, doc.Diagnostics = p.syntax.ExtractFileConfig(content)
	if content == "" {
		return doc, nil
	}

	tokens, err := p.lexer.Tokens(content)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	blocks, diags := segment(p.syntax, p.policy, Lines(tokens))

	doc.Blocks = blocks
	doc.Diagnostics = append(doc.Diagnostics, diags...)
	slices.SortStableFunc(doc.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Compare(a.Line, b.Line)
	})
	return doc, nil
}

// ExtractFileConfig parses the directives found in content.
func (p *Parser) ExtractFileConfig(content string) (FileConfig, []Diagnostic) {
	return p.syntax.ExtractFileConfig(content)
}

// RemoveConfigComments removes directive lines from code.
func (p *Parser) RemoveConfigComments(code string) string {
	return p.syntax.RemoveConfigComments(code)
}

// RemoveIgnoreBlocks removes ignore regions from code.
func (p *Parser) RemoveIgnoreBlocks(code string) (string, error) {
	return p.syntax.RemoveIgnoreBlocks(code)
}

// Clean applies RemoveIgnoreBlocks and RemoveConfigComments to every code
// block of doc, in place. On error doc is left unchanged.
func (p *Parser) Clean(doc *Document) error {
	cleaned := make(map[int]string)
	for i, b := range doc.Blocks {
		if b.Mode != ModeCode {
			continue
		}
		code, err := p.RemoveIgnoreBlocks(b.Content)
		if err != nil {
			return fmt.Errorf("code block at line %d: %w", b.Line, err)
		}
		cleaned[i] = p.RemoveConfigComments(code)
	}
	for i, code := range cleaned {
		doc.Blocks[i].Content = code
	}
	return nil
}
