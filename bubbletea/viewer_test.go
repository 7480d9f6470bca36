package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/docblocks"
	"github.com/fwojciec/docblocks/bubbletea"
	"github.com/fwojciec/docblocks/mock"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trueColorRenderer creates a lipgloss renderer that outputs true colors
// without affecting global state.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// sampleDocument is a gallery file with a title, code and a second section.
func sampleDocument() *docblocks.Document {
	return &docblocks.Document{
		Path:     "plot_demo.py",
		Language: "Python",
		Blocks: []docblocks.Block{
			{Mode: docblocks.ModeText, Content: "Demo title\n==========\n", Line: 1, EndLine: 4},
			{Mode: docblocks.ModeCode, Content: "import numpy as np\n# set up\nx = np.arange(3)", Line: 5, EndLine: 8},
			{Mode: docblocks.ModeText, Content: "Second section\n", Line: 9, EndLine: 10},
			{Mode: docblocks.ModeCode, Content: "print(x)", Line: 11, EndLine: 11},
		},
	}
}

// tallDocument has blocks long enough that only one fits on screen.
func tallDocument() *docblocks.Document {
	var blocks []docblocks.Block
	line := 1
	for _, name := range []string{"FIRST", "SECOND", "THIRD"} {
		content := name + "_START\n" + strings.Repeat("filler line\n", 10)
		blocks = append(blocks, docblocks.Block{Mode: docblocks.ModeText, Content: content, Line: line, EndLine: line + 10})
		line += 11
	}
	return &docblocks.Document{Blocks: blocks}
}

// pythonCommentLexer marks lines starting with '#' as comments.
func pythonCommentLexer() *mock.Lexer {
	return &mock.Lexer{
		NameFn: func() string { return "Python" },
		TokensFn: func(source string) (iter.Seq[docblocks.Token], error) {
			return func(yield func(docblocks.Token) bool) {
				for line := range strings.Lines(source) {
					kind := docblocks.TokenOther
					if strings.HasPrefix(line, "#") {
						kind = docblocks.TokenCommentSingle
					}
					if !yield(docblocks.Token{Kind: kind, Text: line}) {
						return
					}
				}
			}, nil
		},
	}
}

func quit(tm *teatest.TestModel) {
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
}

// waitFor blocks until a single read of the output contains every string in
// wants. Each call consumes the output read so far.
func waitFor(t *testing.T, tm *teatest.TestModel, wants ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		for _, want := range wants {
			if !bytes.Contains(out, []byte(want)) {
				return false
			}
		}
		return true
	}, teatest.WithDuration(2*time.Second))
}

// Compile-time check that Viewer implements docblocks.Viewer.
var _ docblocks.Viewer = (*bubbletea.Viewer)(nil)

func TestModel_Init(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleDocument())

	assert.Nil(t, m.Init())
}

func TestModel_ViewBeforeReady(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleDocument())

	assert.Contains(t, m.View(), "Loading")
}

func TestModel_RendersBlocks(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(sampleDocument())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	waitFor(t, tm, "Demo title", "2 code L5-8", "import numpy as np")

	quit(tm)
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

func TestModel_QuitOnCtrlC(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(&docblocks.Document{})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

func TestModel_NextBlockNavigation(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewModel(tallDocument())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 6))

	waitFor(t, tm, "FIRST_START")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	waitFor(t, tm, "SECOND_START")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	waitFor(t, tm, "THIRD_START")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})
	waitFor(t, tm, "block 2/3")

	quit(tm)
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	press := func(m tea.Model, keys ...rune) tea.Model {
		for _, k := range keys {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
		}
		return m
	}
	ready := func(opts ...bubbletea.ModelOption) tea.Model {
		m, _ := bubbletea.NewModel(sampleDocument(), opts...).Update(tea.WindowSizeMsg{Width: 80, Height: 40})
		return m
	}

	t.Run("status bar shows the active block", func(t *testing.T) {
		t.Parallel()

		m := ready()

		assert.Contains(t, m.View(), "block 1/4 text L1-4")
	})

	t.Run("c jumps to the next code block", func(t *testing.T) {
		t.Parallel()

		m := press(ready(), 'c')
		assert.Contains(t, m.View(), "block 2/4 code L5-8")

		m = press(m, 'c')
		assert.Contains(t, m.View(), "block 4/4 code L11-11")
	})

	t.Run("C jumps back to the previous code block", func(t *testing.T) {
		t.Parallel()

		m := press(ready(), 'G', 'n', 'n', 'n', 'C')

		assert.Contains(t, m.View(), "block 2/4 code")
	})

	t.Run("navigation stops at the ends", func(t *testing.T) {
		t.Parallel()

		m := press(ready(), 'N')
		assert.Contains(t, m.View(), "block 1/4")

		m = press(m, 'n', 'n', 'n', 'n', 'n')
		assert.Contains(t, m.View(), "block 4/4")
	})

	t.Run("y copies the active block", func(t *testing.T) {
		t.Parallel()

		var copied []string
		cb := &mock.Clipboard{CopyFn: func(content string) error {
			copied = append(copied, content)
			return nil
		}}

		m := press(ready(bubbletea.WithClipboard(cb)), 'c', 'y')

		assert.Equal(t, []string{"import numpy as np\n# set up\nx = np.arange(3)"}, copied)
		assert.Contains(t, m.View(), "copied block 2")
	})

	t.Run("y reports copy failures", func(t *testing.T) {
		t.Parallel()

		cb := &mock.Clipboard{CopyFn: func(string) error { return errors.New("no display") }}

		m := press(ready(bubbletea.WithClipboard(cb)), 'y')

		assert.Contains(t, m.View(), "copy failed: no display")
	})

	t.Run("y without a clipboard", func(t *testing.T) {
		t.Parallel()

		m := press(ready(), 'y')

		assert.Contains(t, m.View(), "clipboard unavailable")
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		m, _ := bubbletea.NewModel(&docblocks.Document{}).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
		m = press(m, 'n', 'c', 'y')

		assert.Contains(t, m.View(), "no blocks")
	})
}

func TestModel_RendersDiagnostics(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	doc.Diagnostics = []docblocks.Diagnostic{{Kind: docblocks.DiagDroppedMarkerText, Line: 9, Text: "gone"}}

	m, _ := bubbletea.NewModel(doc).Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Contains(t, m.View(), `! line 9: dropped text on same line as marker: "gone"`)
}

func TestModel_RendersLineNumbersForCode(t *testing.T) {
	t.Parallel()

	m, _ := bubbletea.NewModel(sampleDocument()).Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	view := m.View()

	lines := strings.Split(view, "\n")
	assert.True(t, slices.ContainsFunc(lines, func(l string) bool {
		return strings.HasPrefix(l, "  5 import numpy")
	}), "code lines carry their source line number")
	assert.True(t, slices.ContainsFunc(lines, func(l string) bool {
		return strings.HasPrefix(l, "    Demo title")
	}), "text lines have a blank gutter")
}

func TestModel_RendersEmptyCodeBlock(t *testing.T) {
	t.Parallel()

	doc := &docblocks.Document{Blocks: []docblocks.Block{
		{Mode: docblocks.ModeText, Content: "A\n", Line: 1, EndLine: 1},
		{Mode: docblocks.ModeCode, Content: "", Line: 2, EndLine: 2},
		{Mode: docblocks.ModeText, Content: "B\n", Line: 3, EndLine: 3},
	}}

	m, _ := bubbletea.NewModel(doc).Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Contains(t, m.View(), "(empty)")
}

func TestModel_ExpandsTabs(t *testing.T) {
	t.Parallel()

	doc := &docblocks.Document{Blocks: []docblocks.Block{
		{Mode: docblocks.ModeCode, Content: "if x:\n\treturn 1", Line: 1, EndLine: 2},
	}}

	m, _ := bubbletea.NewModel(doc).Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Contains(t, m.View(), "  2         return 1")
	assert.NotContains(t, m.View(), "\t")
}

func TestModel_AppliesColors(t *testing.T) {
	t.Parallel()

	theme := staticTheme{styles: docblocks.Styles{
		Code:    docblocks.ColorPair{Foreground: "#00ff00", Background: "#111111"},
		Comment: docblocks.ColorPair{Foreground: "#888888", Background: "#111111"},
	}}
	m := bubbletea.NewModel(sampleDocument(),
		bubbletea.WithRenderer(trueColorRenderer()),
		bubbletea.WithTheme(theme),
		bubbletea.WithLexer(pythonCommentLexer()),
	)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	view := updated.View()

	assert.Contains(t, view, "38;2;0;255;0", "code foreground")
	assert.Contains(t, view, "38;2;136;136;136", "comment foreground")
	assert.Contains(t, view, "48;2;17;17;17", "code background")
}

type staticTheme struct {
	styles  docblocks.Styles
	palette docblocks.Palette
}

func (t staticTheme) Styles() docblocks.Styles   { return t.styles }
func (t staticTheme) Palette() docblocks.Palette { return t.palette }

func TestViewer_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var in, out bytes.Buffer
	viewer := bubbletea.NewViewer(
		bubbletea.WithProgramOptions(
			tea.WithInput(&in),
			tea.WithOutput(&out),
		),
	)

	done := make(chan error, 1)
	go func() {
		done <- viewer.View(ctx, sampleDocument())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("viewer did not exit after context cancellation")
	}
}

func TestViewer_ContextAlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var in, out bytes.Buffer
	viewer := bubbletea.NewViewer(
		bubbletea.WithProgramOptions(
			tea.WithInput(&in),
			tea.WithOutput(&out),
		),
	)

	err := viewer.View(ctx, sampleDocument())

	require.ErrorIs(t, err, context.Canceled)
}
