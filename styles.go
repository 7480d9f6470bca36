package docblocks

// ColorPair represents a foreground and background color combination.
// Colors are hex strings in "#RRGGBB" format. Empty strings leave the
// terminal default in place.
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for the elements of a rendered document.
type Styles struct {
	Text         ColorPair // Lines of text blocks
	Code         ColorPair // Lines of code blocks
	Comment      ColorPair // Comment tokens inside code blocks
	BlockHeader  ColorPair // Separator line above each block
	ActiveHeader ColorPair // Separator line of the selected block
	LineNumber   ColorPair // Source line numbers in the gutter
	Diagnostic   ColorPair // Diagnostic messages
}

// Palette holds the base colors a theme is built from.
type Palette struct {
	Background string
	Foreground string
	Muted      string

	UIBackground string
	UIForeground string
	UIAccent     string
}

// Theme provides styles for rendering documents. Implementations can
// provide light and dark variants.
type Theme interface {
	Styles() Styles
	Palette() Palette
}
