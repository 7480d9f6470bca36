package bubbletea_test

import (
	"testing"

	"github.com/fwojciec/docblocks/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestExpandTabs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no tabs", "x = 1", "x = 1"},
		{"single tab expands to 8 spaces", "\t", "        "},
		{"tab after one char expands to 7 spaces", "a\t", "a       "},
		{"tab after eight chars expands to 8 spaces", "12345678\t", "12345678        "},
		{"nested indentation", "\t\tcall()", "                call()"},
		{"wide character before tab", "日\t", "日      "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, bubbletea.ExpandTabs(tt.input))
		})
	}
}
