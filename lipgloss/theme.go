// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.Theme = (*Theme)(nil)

// Theme implements docblocks.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles  docblocks.Styles
	palette docblocks.Palette
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() docblocks.Styles {
	return t.styles
}

// Palette returns the base color palette for this theme.
func (t *Theme) Palette() docblocks.Palette {
	return t.palette
}

// DefaultTheme returns the theme matching the terminal background.
func DefaultTheme() *Theme {
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: docblocks.Styles{
			Text: docblocks.ColorPair{
				Foreground: "#cdd6f4", // Text
			},
			Code: docblocks.ColorPair{
				Foreground: "#a6e3a1", // Green
				Background: "#181825", // Mantle, slightly darker than the base
			},
			Comment: docblocks.ColorPair{
				Foreground: "#6c7086", // Muted gray
				Background: "#181825",
			},
			BlockHeader: docblocks.ColorPair{
				Foreground: "#45475a", // Subtle separator
			},
			ActiveHeader: docblocks.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			LineNumber: docblocks.ColorPair{
				Foreground: "#6c7086",
			},
			Diagnostic: docblocks.ColorPair{
				Foreground: "#f38ba8", // Red
			},
		},
		palette: docblocks.Palette{
			// Catppuccin Mocha
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",
			Muted:      "#6c7086",

			UIBackground: "#313244",
			UIForeground: "#a6adc8",
			UIAccent:     "#89b4fa",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: docblocks.Styles{
			Text: docblocks.ColorPair{
				Foreground: "#4c4f69",
			},
			Code: docblocks.ColorPair{
				Foreground: "#40a02b",
				Background: "#e6e9ef",
			},
			Comment: docblocks.ColorPair{
				Foreground: "#9ca0b0",
				Background: "#e6e9ef",
			},
			BlockHeader: docblocks.ColorPair{
				Foreground: "#bcc0cc",
			},
			ActiveHeader: docblocks.ColorPair{
				Foreground: "#df8e1d",
				Background: "#dce0e8",
			},
			LineNumber: docblocks.ColorPair{
				Foreground: "#9ca0b0",
			},
			Diagnostic: docblocks.ColorPair{
				Foreground: "#d20f39",
			},
		},
		palette: docblocks.Palette{
			// Catppuccin Latte
			Background: "#eff1f5",
			Foreground: "#4c4f69",
			Muted:      "#9ca0b0",

			UIBackground: "#e6e9ef",
			UIForeground: "#6c6f85",
			UIAccent:     "#1e66f5",
		},
	}
}
