package docblocks

import (
	"iter"
	"regexp"
	"strings"
)

// segmenter is the block state machine. It lives for one Split call.
type segmenter struct {
	syntax *Syntax
	policy MarkerTextPolicy

	// active opens text blocks. It starts as the plain continuation pattern
	// so a file may begin with an unmarked comment, and switches to the
	// "%%" pattern once the first text block closes.
	active *regexp.Regexp

	mode           Mode // empty between blocks
	start          int
	lines          []string
	retained       bool // lines[0] is the opener's own text
	inBlockComment bool // inside an unterminated block comment
	gap            int  // blank line that closed the last text block

	blocks []Block
	diags  []Diagnostic
}

// segment consumes lines and returns the blocks they form.
func segment(syntax *Syntax, policy MarkerTextPolicy, lines iter.Seq[Line]) ([]Block, []Diagnostic) {
	s := &segmenter{
		syntax: syntax,
		policy: policy,
		active: syntax.continuation,
	}

	n := 0
	for line := range lines {
		n++
		s.feed(n, line)
	}
	s.flush()

	for i := range s.blocks {
		if i+1 < len(s.blocks) {
			s.blocks[i].EndLine = s.blocks[i+1].Line - 1
		} else {
			s.blocks[i].EndLine = n
		}
	}
	return s.blocks, s.diags
}

func (s *segmenter) feed(n int, line Line) {
	inText := s.mode == ModeText

	switch {
	case inText && line.Kind == TokenWhitespace && !s.inBlockComment:
		// A blank line ends the text block.
		s.flush()
		s.gap = n

	case !inText && line.Kind.IsComment():
		if m := s.active.FindStringSubmatch(line.Text); m != nil {
			s.openText(n, line.Kind, m[1])
			return
		}
		s.code(n, line.Text)

	case inText && (line.Kind.IsComment() || s.inBlockComment):
		s.continueText(line)

	default:
		s.code(n, line.Text)
	}
}

func (s *segmenter) openText(n int, kind TokenKind, trailing string) {
	first := s.active == s.syntax.continuation
	s.flush()
	s.open(ModeText, n)

	if kind == TokenCommentMultiline && s.syntax.HasMultiline() {
		if before, ok := s.syntax.beforeEnd(trailing); ok {
			trailing = before
		} else {
			s.inBlockComment = true
		}
	}

	switch {
	case first || s.policy != MarkerTextDrop:
		s.lines = append(s.lines, trailing)
		s.retained = true
	case strings.TrimSpace(trailing) != "":
		s.diags = append(s.diags, Diagnostic{
			Kind: DiagDroppedMarkerText,
			Line: n,
			Text: trailing,
		})
	}
}

func (s *segmenter) continueText(line Line) {
	if line.Kind == TokenCommentMultiline || s.inBlockComment {
		if before, ok := s.syntax.beforeEnd(line.Text); ok {
			s.lines = append(s.lines, before)
			s.inBlockComment = false
			s.cleanup()
			return
		}
		s.lines = append(s.lines, line.Text)
		s.inBlockComment = s.syntax.HasMultiline()
		return
	}

	if text, ok := s.syntax.markerText(line.Text); ok {
		s.lines = append(s.lines, text)
		return
	}
	s.lines = append(s.lines, line.Text)
}

func (s *segmenter) code(n int, text string) {
	if s.mode != ModeCode {
		s.flush()
		s.open(ModeCode, n)
	}
	s.lines = append(s.lines, text)
}

func (s *segmenter) open(mode Mode, n int) {
	// Two text blocks separated by a single blank line get an empty code
	// block for that line so modes keep alternating.
	if mode == ModeText && len(s.blocks) > 0 && s.blocks[len(s.blocks)-1].Mode == ModeText {
		s.blocks = append(s.blocks, Block{Mode: ModeCode, Line: s.gap})
	}
	s.mode = mode
	s.start = n
	s.lines = nil
	s.retained = false
	s.inBlockComment = false
}

func (s *segmenter) flush() {
	switch s.mode {
	case ModeText:
		s.blocks = append(s.blocks, Block{
			Mode:    ModeText,
			Content: finalizeText(s.lines),
			Line:    s.start,
		})
		s.active = s.syntax.special
	case ModeCode:
		s.blocks = append(s.blocks, Block{
			Mode:    ModeCode,
			Content: strings.Join(s.lines, "\n"),
			Line:    s.start,
		})
	}
	s.mode = ""
	s.lines = nil
	s.inBlockComment = false
}

// cleanup strips decorative prefixes once a block comment has closed.
func (s *segmenter) cleanup() {
	from := 0
	if s.retained {
		from = 1
	}
	cleanupMultiline(s.lines, from, s.syntax.cleanup)
}
