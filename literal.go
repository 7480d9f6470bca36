package docblocks

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxLiteralDepth bounds list and tuple nesting.
const maxLiteralDepth = 64

// Tuple is a parenthesized (or bare comma-separated) literal sequence. It is
// kept distinct from a list, which parses to []any.
type Tuple []any

// LiteralError reports a malformed directive value.
type LiteralError struct {
	Offset int // byte offset into the value
	Msg    string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid literal at offset %d: %s", e.Offset, e.Msg)
}

// ParseLiteral parses a directive value without evaluating anything.
//
// Accepted forms: True, False, None, integers (decimal, 0x, 0o, 0b, with "_"
// separators) as int64, floats as float64, quoted strings (single, double or
// triple quoted, optional r or u prefix, adjacent strings concatenated), and
// lists ([]any) or tuples (Tuple) of these. A sign may precede a number. A
// top-level comma makes a tuple, so "1, 2" equals "(1, 2)".
func ParseLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	if p.done() {
		return nil, p.errorf("empty value")
	}

	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ',' {
		items := Tuple{v}
		for p.peek() == ',' {
			p.pos++
			p.skipSpace()
			if p.done() {
				break
			}
			if v, err = p.value(0); err != nil {
				return nil, err
			}
			items = append(items, v)
			p.skipSpace()
		}
		v = items
	}
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) done() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *literalParser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &LiteralError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *literalParser) value(depth int) (any, error) {
	if depth > maxLiteralDepth {
		return nil, p.errorf("nesting too deep")
	}

	c := p.peek()
	switch {
	case c == '[':
		items, _, err := p.sequence(']', depth)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []any{}
		}
		return items, nil

	case c == '(':
		items, comma, err := p.sequence(')', depth)
		if err != nil {
			return nil, err
		}
		if len(items) == 1 && !comma {
			return items[0], nil
		}
		if items == nil {
			return Tuple{}, nil
		}
		return Tuple(items), nil

	case p.atString():
		return p.stringValue()

	case c == '+' || c == '-':
		p.pos++
		p.skipSpace()
		if !isDigit(p.peek()) && !(p.peek() == '.' && isDigit(p.peekAt(1))) {
			return nil, p.errorf("sign must precede a number")
		}
		v, err := p.number()
		if err != nil || c == '+' {
			return v, err
		}
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return v, nil

	case isDigit(c) || (c == '.' && isDigit(p.peekAt(1))):
		return p.number()

	case isIdentifierStart(c):
		start := p.pos
		for !p.done() && isIdentifierChar(p.src[p.pos]) {
			p.pos++
		}
		switch name := p.src[start:p.pos]; name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		default:
			p.pos = start
			return nil, p.errorf("name %q is not a literal", name)
		}

	case p.done():
		return nil, p.errorf("unexpected end of value")

	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// sequence parses items up to closing. comma reports whether any separator
// was seen, which tells "(1,)" from "(1)".
func (p *literalParser) sequence(closing byte, depth int) (items []any, comma bool, err error) {
	open := p.pos
	p.pos++
	for {
		p.skipSpace()
		if p.done() {
			p.pos = open
			return nil, false, p.errorf("unclosed %q", p.src[open])
		}
		if p.peek() == closing {
			p.pos++
			return items, comma, nil
		}

		v, err := p.value(depth + 1)
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			comma = true
		case closing:
			p.pos++
			return items, comma, nil
		case 0:
			p.pos = open
			return nil, false, p.errorf("unclosed %q", p.src[open])
		default:
			return nil, false, p.errorf("expected ',' or %q", closing)
		}
	}
}

// number scans a numeric token and converts it.
func (p *literalParser) number() (any, error) {
	start := p.pos
	for !p.done() {
		c := p.src[p.pos]
		if isIdentifierChar(c) || c == '.' {
			p.pos++
			continue
		}
		// Exponent sign, but not inside a hex literal.
		if (c == '+' || c == '-') && p.pos > start &&
			(p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') && !hasBasePrefix(p.src[start:p.pos]) {
			p.pos++
			continue
		}
		break
	}

	text := p.src[start:p.pos]
	v, msg := parseNumber(text)
	if msg != "" {
		p.pos = start
		return nil, p.errorf("%s: %q", msg, text)
	}
	return v, nil
}

func parseNumber(text string) (any, string) {
	if !underscoresOK(text) {
		return nil, "misplaced underscore"
	}
	digits := strings.ReplaceAll(text, "_", "")

	if hasBasePrefix(digits) {
		base := 16
		switch digits[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		n, err := strconv.ParseInt(digits[2:], base, 64)
		if err != nil {
			return nil, numberError(err)
		}
		return n, ""
	}

	switch last := digits[len(digits)-1]; {
	case last == 'j' || last == 'J':
		return nil, "complex numbers are not supported"
	case strings.ContainsAny(digits, ".eE"):
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, numberError(err)
		}
		return f, ""
	}

	if len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		return nil, "leading zeros in decimal integer"
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, numberError(err)
	}
	return n, ""
}

func numberError(err error) string {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return "number out of range"
	}
	return "malformed number"
}

func hasBasePrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

// underscoresOK reports whether every "_" sits between two digits, or
// directly after a base prefix.
func underscoresOK(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isHexDigit(s[i+1]) {
			return false
		}
		if !isHexDigit(s[i-1]) && !(i == 2 && hasBasePrefix(s)) {
			return false
		}
	}
	return true
}

// atString reports whether a string literal, with optional prefix, starts here.
func (p *literalParser) atString() bool {
	c := p.peek()
	if c == '\'' || c == '"' {
		return true
	}
	if !isIdentifierStart(c) {
		return false
	}
	for off := 1; off <= 2; off++ {
		if q := p.peekAt(off); q == '\'' || q == '"' {
			return isStringPrefix(p.src[p.pos : p.pos+off])
		}
	}
	return false
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "rb", "br", "fr", "rf":
		return true
	}
	return false
}

// stringValue parses one or more adjacent string literals and concatenates them.
func (p *literalParser) stringValue() (string, error) {
	var b strings.Builder
	for {
		if err := p.stringLiteral(&b); err != nil {
			return "", err
		}
		p.skipSpace()
		if !p.atString() {
			return b.String(), nil
		}
	}
}

func (p *literalParser) stringLiteral(b *strings.Builder) error {
	start := p.pos
	raw := false
	for p.peek() != '\'' && p.peek() != '"' {
		switch p.peek() {
		case 'r', 'R':
			raw = true
		case 'b', 'B':
			return p.errorf("bytes literals are not supported")
		case 'f', 'F':
			return p.errorf("formatted strings are not literals")
		}
		p.pos++
	}

	delim := p.src[p.pos : p.pos+1]
	if strings.HasPrefix(p.src[p.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	p.pos += len(delim)

	for {
		if p.done() {
			p.pos = start
			return p.errorf("unterminated string")
		}
		if strings.HasPrefix(p.src[p.pos:], delim) {
			p.pos += len(delim)
			return nil
		}

		c := p.src[p.pos]
		if c != '\\' {
			b.WriteByte(c)
			p.pos++
			continue
		}
		if raw {
			b.WriteByte(c)
			p.pos++
			if !p.done() {
				b.WriteByte(p.src[p.pos])
				p.pos++
			}
			continue
		}
		p.pos++
		if err := p.escape(b); err != nil {
			return err
		}
	}
}

// escape decodes the escape sequence following a backslash.
func (p *literalParser) escape(b *strings.Builder) error {
	if p.done() {
		return p.errorf("unterminated string")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\n':
		// Line continuation.
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	case 'U':
		return p.hexEscape(b, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2 && !p.done() && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; i++ {
			n = n*8 + int(p.src[p.pos]-'0')
			p.pos++
		}
		b.WriteRune(rune(n))
	default:
		// Unknown escapes are kept as written.
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *literalParser) hexEscape(b *strings.Builder, width int) error {
	if p.pos+width > len(p.src) {
		return p.errorf("truncated escape sequence")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+width], 16, 32)
	if err != nil {
		return p.errorf("malformed escape sequence")
	}
	if n > utf8.MaxRune {
		return p.errorf("escape sequence out of range")
	}
	p.pos += width
	b.WriteRune(rune(n))
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}
