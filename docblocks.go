// Package docblocks splits annotated source files into alternating text and
// code blocks, driven by the comment syntax of the file's language.
package docblocks

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Sentinel errors returned by parser construction.
var (
	// ErrNoLexer is returned when no lexer can be resolved for a file.
	ErrNoLexer = errors.New("no lexer found")
	// ErrNoCommentSyntax is returned when a lexer recognizes none of the known
	// comment conventions.
	ErrNoCommentSyntax = errors.New("no comment syntax detected")
)

// TokenKind classifies a lexer token. Only the distinctions needed for
// segmentation are kept.
type TokenKind int

// Token kinds.
const (
	TokenOther TokenKind = iota
	TokenWhitespace
	TokenComment
	TokenCommentSingle
	TokenCommentMultiline
)

// IsComment reports whether k is one of the comment kinds.
func (k TokenKind) IsComment() bool {
	switch k {
	case TokenComment, TokenCommentSingle, TokenCommentMultiline:
		return true
	default:
		return false
	}
}

// String returns a short name for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenWhitespace:
		return "whitespace"
	case TokenComment:
		return "comment"
	case TokenCommentSingle:
		return "comment-single"
	case TokenCommentMultiline:
		return "comment-multiline"
	default:
		return "other"
	}
}

// Token is a classified span of source text. Text may span several lines.
type Token struct {
	Kind TokenKind
	Text string
}

// Lexer classifies source text into tokens for a single language.
type Lexer interface {
	// Name returns the language name, e.g. "C++".
	Name() string
	// Tokens returns the token stream for source. The concatenated token
	// text must reproduce source, optionally with one trailing newline added.
	Tokens(source string) (iter.Seq[Token], error)
}

// LexerRegistry resolves lexers by name or by filename.
type LexerRegistry interface {
	// Get returns the lexer registered under name, or nil if unknown.
	Get(name string) Lexer
	// Match returns the lexer for filename, or nil if none matches.
	Match(filename string) Lexer
}

// Mode identifies the kind of content held by a Block.
type Mode string

// Block modes.
const (
	ModeText Mode = "text"
	ModeCode Mode = "code"
)

// Block is a contiguous run of lines assigned to one mode.
type Block struct {
	Mode    Mode   `json:"mode"`
	Content string `json:"content"`
	Line    int    `json:"line"`     // 1-based first line of the block
	EndLine int    `json:"end_line"` // last line of the block's span
}

// Document is the result of splitting one source file.
type Document struct {
	Path        string       `json:"path,omitempty"`
	Language    string       `json:"language"`
	Config      FileConfig   `json:"config"`
	Blocks      []Block      `json:"blocks"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// CodeBlocks returns the blocks in mode code.
func (d *Document) CodeBlocks() []Block {
	var blocks []Block
	for _, b := range d.Blocks {
		if b.Mode == ModeCode {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// FileConfig maps directive names to their parsed literal values.
type FileConfig map[string]any

// FileResult pairs a path with its split document or the error that
// prevented splitting it.
type FileResult struct {
	Path     string
	Document *Document
	Err      error
}

// Reporter receives diagnostics emitted while splitting files.
type Reporter interface {
	Report(path string, d Diagnostic)
}

// Processor splits many files at once.
type Processor interface {
	// Process splits every path. Per-file failures are carried in the
	// results; the error is reserved for failures of the whole batch.
	Process(ctx context.Context, paths []string) ([]FileResult, error)
}

// Finder discovers source files under a directory.
type Finder interface {
	Find(root string) ([]string, error)
}

// GitRunner provides access to git for selecting changed files.
type GitRunner interface {
	// Diff returns the unified diff between rev and the working tree.
	Diff(ctx context.Context, repoPath, rev string) (string, error)
}

// DiffParser extracts the paths touched by a unified diff.
type DiffParser interface {
	ChangedPaths(r io.Reader) ([]string, error)
}

// Viewer displays a split document.
type Viewer interface {
	View(ctx context.Context, doc *Document) error
}

// Clipboard provides copy-to-clipboard functionality.
type Clipboard interface {
	Copy(content string) error
}

// DocumentStore persists split documents, one per line.
type DocumentStore interface {
	Save(w io.Writer, docs []*Document) error
	Load(r io.Reader) ([]*Document, error)
}
