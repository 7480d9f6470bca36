package docblocks

import (
	"fmt"
	"regexp"
	"strings"
)

// convention is one comment style probed against a lexer.
type convention struct {
	sample     string
	start      string // pattern for the comment-start marker
	end        string // pattern for the block-comment end marker, if any
	decoration string // pattern for a decorative continuation character
}

// conventions are probed in order. A language may accept several.
var conventions = []convention{
	{sample: "# comment", start: `#`},
	{sample: "// comment", start: `//`},
	{sample: "/* comment */", start: `/\*`, end: `\*/`, decoration: `\*`},
	{sample: "% comment", start: `%`},
	{sample: "! comment", start: `!`},
	{sample: "#= comment =#", start: `#=`, end: `=#`},
	{sample: "c     comment", start: `^c(?:$|     )`},
	{sample: "-- comment", start: `--`},
	{sample: "; comment", start: `;`},
}

// Syntax holds the comment patterns of one language. It is computed once per
// parser and never modified, so it is safe for concurrent use.
type Syntax struct {
	markers      []string
	multilineEnd *regexp.Regexp
	cleanup      *regexp.Regexp
	special      *regexp.Regexp
	continuation *regexp.Regexp
	directive    *regexp.Regexp
	startIgnore  *regexp.Regexp
	endIgnore    *regexp.Regexp
}

// DetectSyntax feeds a sample of every known comment convention to lexer and
// builds the marker patterns for those it classifies as comments.
//
// A block convention only contributes its end marker when the lexer reports
// the sample as a multiline comment; otherwise its start marker is treated as
// a line comment (Python accepts "#=" that way).
func DetectSyntax(lexer Lexer) (*Syntax, error) {
	var block, line []string
	var end, decoration string
	for _, c := range conventions {
		kind, err := firstKind(lexer, c.sample)
		if err != nil {
			return nil, err
		}
		if !kind.IsComment() {
			continue
		}
		if c.end != "" && kind == TokenCommentMultiline {
			block = append(block, c.start)
			end = c.end
			if c.decoration != "" {
				decoration = c.decoration
			}
			continue
		}
		line = append(line, c.start)
	}

	// Block markers go first so "#=" wins over "#" where both are comments.
	markers := append(block, line...)
	if len(markers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommentSyntax, lexer.Name())
	}
	return newSyntax(markers, end, decoration), nil
}

func newSyntax(markers []string, end, decoration string) *Syntax {
	start := "(?:" + strings.Join(markers, "|") + ")"
	s := &Syntax{
		markers:      markers,
		special:      regexp.MustCompile(start + ` ?%% ?(.*)`),
		continuation: regexp.MustCompile(start + ` ?(.*)`),
		directive: regexp.MustCompile(`^[ \t]*` + start +
			`[ \t]*sphinx_gallery_([A-Za-z0-9_]+)(?:[ \t]*=[ \t]*(.*?))?[ \t]*$`),
		startIgnore: flagPattern(start, "start_ignore"),
		endIgnore:   flagPattern(start, "end_ignore"),
		cleanup:     regexp.MustCompile(`^\s*`),
	}
	if end != "" {
		s.multilineEnd = regexp.MustCompile(`(.*?)\s*` + end)
	}
	if decoration != "" {
		s.cleanup = regexp.MustCompile(`^\s*(` + decoration + `\s*)?`)
	}
	return s
}

func flagPattern(start, name string) *regexp.Regexp {
	return regexp.MustCompile(`^[ \t]*` + start + `[ \t]*sphinx_gallery_` + name + `[ \t]*$`)
}

// firstKind returns the kind of the first token the lexer produces for sample.
func firstKind(lexer Lexer, sample string) (TokenKind, error) {
	tokens, err := lexer.Tokens(sample + "\n")
	if err != nil {
		return TokenOther, fmt.Errorf("probe %q: %w", sample, err)
	}
	for tok := range tokens {
		return tok.Kind, nil
	}
	return TokenOther, nil
}

// Markers returns the accepted comment-start patterns in match order.
func (s *Syntax) Markers() []string {
	return append([]string(nil), s.markers...)
}

// HasMultiline reports whether a block-comment convention was accepted.
func (s *Syntax) HasMultiline() bool {
	return s.multilineEnd != nil
}

// markerText returns the text following the comment marker on line.
func (s *Syntax) markerText(line string) (string, bool) {
	m := s.continuation.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// beforeEnd returns the text preceding the block-comment end marker.
func (s *Syntax) beforeEnd(line string) (string, bool) {
	if s.multilineEnd == nil {
		return "", false
	}
	m := s.multilineEnd.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
