package docblocks

import (
	"iter"
	"strings"
)

// Line is one physical source line with its dominant token kind.
type Line struct {
	Kind TokenKind
	Text string
}

// Lines folds a token stream into physical lines. A line's kind is the kind of
// the first token that puts non-whitespace text on it; blank lines have kind
// TokenWhitespace. Tokens spanning several lines are split, and each piece
// is attributed to the line it lands on.
//
// The returned sequence is lazy and pulls from tokens as it goes, so it can be
// ranged over only once.
func Lines(tokens iter.Seq[Token]) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		var current strings.Builder
		kind, set := TokenWhitespace, false

		for tok := range tokens {
			parts := strings.Split(tok.Text, "\n")
			for i, part := range parts {
				if i > 0 {
					if !yield(Line{Kind: kind, Text: current.String()}) {
						return
					}
					current.Reset()
					kind, set = TokenWhitespace, false
				}
				if !set && strings.TrimSpace(part) != "" {
					kind, set = tok.Kind, true
					if kind == TokenWhitespace {
						kind = TokenOther
					}
				}
				current.WriteString(part)
			}
		}

		// A final line without a newline still counts.
		if current.Len() > 0 {
			yield(Line{Kind: kind, Text: current.String()})
		}
	}
}
