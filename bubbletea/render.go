package bubbletea

import (
	"fmt"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docblocks"
)

// tabWidth is the column interval between tab stops.
const tabWidth = 8

// minGutterWidth is the minimum width of the line number column.
const minGutterWidth = 3

// defaultWidth is used before the terminal size is known.
const defaultWidth = 80

// renderConfig holds all rendering parameters for renderDocument.
type renderConfig struct {
	doc      *docblocks.Document
	styles   docblocks.Styles
	renderer *lipgloss.Renderer
	lexer    docblocks.Lexer
	width    int
	active   int // index of the selected block
}

// renderDocument renders doc as styled text. It also returns the line at
// which each block's header was written.
func renderDocument(cfg renderConfig) (string, []int) {
	doc := cfg.doc
	if doc == nil {
		return "", nil
	}
	width := cfg.width
	if width <= 0 {
		width = defaultWidth
	}

	headerStyle := styleFromColorPair(cfg.styles.BlockHeader, cfg.renderer)
	activeStyle := styleFromColorPair(cfg.styles.ActiveHeader, cfg.renderer)
	textStyle := styleFromColorPair(cfg.styles.Text, cfg.renderer)
	codeStyle := styleFromColorPair(cfg.styles.Code, cfg.renderer)
	commentStyle := styleFromColorPair(cfg.styles.Comment, cfg.renderer)
	lineNumStyle := styleFromColorPair(cfg.styles.LineNumber, cfg.renderer)
	diagStyle := styleFromColorPair(cfg.styles.Diagnostic, cfg.renderer)

	gutterWidth := calculateGutterWidth(doc)
	blankGutter := strings.Repeat(" ", gutterWidth+1)

	var sb strings.Builder
	lineNum := 0
	writeLine := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
		lineNum++
	}

	for _, d := range doc.Diagnostics {
		writeLine(diagStyle.Render("! " + d.String()))
	}
	if len(doc.Diagnostics) > 0 {
		writeLine("")
	}

	positions := make([]int, 0, len(doc.Blocks))
	for i, block := range doc.Blocks {
		positions = append(positions, lineNum)

		style := headerStyle
		if i == cfg.active {
			style = activeStyle
		}
		writeLine(style.Render(padHeader(formatBlockHeader(i, block), width)))

		switch block.Mode {
		case docblocks.ModeCode:
			lines := codeLines(block.Content, cfg.lexer)
			if len(lines) == 0 {
				writeLine(blankGutter + lineNumStyle.Render("(empty)"))
				continue
			}
			for k, tokens := range lines {
				gutter := lineNumStyle.Render(formatLineNum(block.Line+k, gutterWidth)) + " "
				writeLine(gutter + renderCodeLine(tokens, codeStyle, commentStyle, width-gutterWidth-1))
			}
		default:
			for _, line := range strings.Split(strings.TrimSuffix(block.Content, "\n"), "\n") {
				writeLine(blankGutter + textStyle.Render(ExpandTabs(line)))
			}
		}
	}
	return sb.String(), positions
}

// codeLines splits code into lines of tokens. Without a lexer, or when the
// lexer fails, every line is a single TokenOther.
func codeLines(content string, lexer docblocks.Lexer) [][]docblocks.Token {
	if content == "" {
		return nil
	}
	n := strings.Count(content, "\n") + 1

	if lexer != nil {
		if tokens, err := lexer.Tokens(content); err == nil {
			lines := splitTokenLines(tokens)
			// Lexers may append a trailing newline.
			if len(lines) > n {
				lines = lines[:n]
			}
			return lines
		}
	}

	lines := make([][]docblocks.Token, 0, n)
	for _, line := range strings.Split(content, "\n") {
		lines = append(lines, []docblocks.Token{{Kind: docblocks.TokenOther, Text: line}})
	}
	return lines
}

// splitTokenLines breaks tokens at newlines, keeping each piece's kind.
func splitTokenLines(tokens iter.Seq[docblocks.Token]) [][]docblocks.Token {
	lines := [][]docblocks.Token{nil}
	for tok := range tokens {
		for i, part := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], docblocks.Token{Kind: tok.Kind, Text: part})
			}
		}
	}
	return lines
}

// renderCodeLine styles each token and pads the line to width so the code
// background extends across the screen.
func renderCodeLine(tokens []docblocks.Token, codeStyle, commentStyle lipgloss.Style, width int) string {
	var sb strings.Builder
	col := 0
	for _, tok := range tokens {
		text := expandTabsFrom(tok.Text, col)
		col += lipgloss.Width(text)
		if tok.Kind.IsComment() {
			sb.WriteString(commentStyle.Render(text))
		} else {
			sb.WriteString(codeStyle.Render(text))
		}
	}
	if col < width {
		sb.WriteString(codeStyle.Render(strings.Repeat(" ", width-col)))
	}
	return sb.String()
}

// formatBlockHeader describes a block, e.g. "2 code L5-7".
func formatBlockHeader(i int, block docblocks.Block) string {
	return fmt.Sprintf("── %d %s L%d-%d ", i+1, block.Mode, block.Line, block.EndLine)
}

// padHeader fills a header with rule characters up to width.
func padHeader(header string, width int) string {
	w := lipgloss.Width(header)
	if w >= width {
		return header
	}
	return header + strings.Repeat("─", width-w)
}

// ExpandTabs converts tab characters to spaces using 8-column tab stops.
func ExpandTabs(s string) string {
	return expandTabsFrom(s, 0)
}

// expandTabsFrom expands tabs in s, which starts at column startCol.
func expandTabsFrom(s string, startCol int) string {
	if !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			nextStop := ((col / tabWidth) + 1) * tabWidth
			sb.WriteString(strings.Repeat(" ", nextStop-col))
			col = nextStop
		} else {
			sb.WriteRune(r)
			col += lipgloss.Width(string(r))
		}
	}
	return sb.String()
}

// calculateGutterWidth returns the width needed for the largest line number.
func calculateGutterWidth(doc *docblocks.Document) int {
	maxLine := 0
	for _, b := range doc.Blocks {
		maxLine = max(maxLine, b.EndLine)
	}
	return max(minGutterWidth, digitWidth(maxLine))
}

// formatLineNum right-aligns num in a column of width.
func formatLineNum(num, width int) string {
	return fmt.Sprintf("%*d", width, num)
}

// styleFromColorPair creates a lipgloss style from a ColorPair.
// If renderer is nil, the default lipgloss renderer is used.
func styleFromColorPair(cp docblocks.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	var style lipgloss.Style
	if renderer != nil {
		style = renderer.NewStyle()
	} else {
		style = lipgloss.NewStyle()
	}
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}

// digitWidth returns the number of digits needed to display n.
func digitWidth(n int) int {
	if n <= 0 {
		return 1
	}
	width := 0
	for n > 0 {
		width++
		n /= 10
	}
	return width
}
