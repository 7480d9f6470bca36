// Package bubbletea provides a terminal UI for browsing split documents
// using the Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.Viewer = (*Viewer)(nil)

// Model is the Bubble Tea model for browsing the blocks of a document.
type Model struct {
	doc       *docblocks.Document
	lexer     docblocks.Lexer
	clipboard docblocks.Clipboard

	// Header line of each block in the rendered content.
	positions []int
	active    int

	// UI state
	viewport   viewport.Model
	keymap     KeyMap
	styles     docblocks.Styles
	palette    docblocks.Palette
	renderer   *lipgloss.Renderer
	width      int
	ready      bool
	pendingKey string
	status     string
}

// ModelOption configures a Model.
type ModelOption func(*modelConfig)

type modelConfig struct {
	renderer  *lipgloss.Renderer
	theme     docblocks.Theme
	lexer     docblocks.Lexer
	clipboard docblocks.Clipboard
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(cfg *modelConfig) {
		cfg.renderer = r
	}
}

// WithTheme sets the theme for the model.
func WithTheme(t docblocks.Theme) ModelOption {
	return func(cfg *modelConfig) {
		cfg.theme = t
	}
}

// WithLexer enables comment highlighting in code blocks.
func WithLexer(l docblocks.Lexer) ModelOption {
	return func(cfg *modelConfig) {
		cfg.lexer = l
	}
}

// WithClipboard enables copying the selected block.
func WithClipboard(c docblocks.Clipboard) ModelOption {
	return func(cfg *modelConfig) {
		cfg.clipboard = c
	}
}

// NewModel creates a new Model for doc.
func NewModel(doc *docblocks.Document, opts ...ModelOption) Model {
	cfg := &modelConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	m := Model{
		doc:       doc,
		lexer:     cfg.lexer,
		clipboard: cfg.clipboard,
		keymap:    DefaultKeyMap(),
		renderer:  cfg.renderer,
	}
	if cfg.theme != nil {
		m.styles = cfg.theme.Styles()
		m.palette = cfg.theme.Palette()
	}
	_, m.positions = m.render()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle multi-key sequences (gg for go to top)
		if m.pendingKey == "g" && key.Matches(msg, m.keymap.GotoTop) {
			m.viewport.GotoTop()
			m.pendingKey = ""
			return m, nil
		}
		if key.Matches(msg, m.keymap.GotoTop) {
			m.pendingKey = "g"
			return m, nil
		}
		m.pendingKey = ""
		m.status = ""

		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.NextBlock):
			m.selectBlock(m.active + 1)
			return m, nil
		case key.Matches(msg, m.keymap.PrevBlock):
			m.selectBlock(m.active - 1)
			return m, nil
		case key.Matches(msg, m.keymap.NextCode):
			m.selectBlock(m.findCode(m.active+1, 1))
			return m, nil
		case key.Matches(msg, m.keymap.PrevCode):
			m.selectBlock(m.findCode(m.active-1, -1))
			return m, nil
		case key.Matches(msg, m.keymap.Copy):
			m.copyActive()
			return m, nil
		}
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		widthChanged := m.width != msg.Width
		m.width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.refresh()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
			if widthChanged {
				m.refresh()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusBarView())
}

func (m Model) render() (string, []int) {
	return renderDocument(renderConfig{
		doc:      m.doc,
		styles:   m.styles,
		renderer: m.renderer,
		lexer:    m.lexer,
		width:    m.width,
		active:   m.active,
	})
}

// refresh re-renders the content, keeping the scroll offset.
func (m *Model) refresh() {
	content, positions := m.render()
	m.positions = positions
	m.viewport.SetContent(content)
}

// selectBlock makes block i active and scrolls its header to the top.
// Out of range indices are ignored.
func (m *Model) selectBlock(i int) {
	if i < 0 || i >= len(m.positions) || i == m.active {
		return
	}
	m.active = i
	m.refresh()
	m.viewport.SetYOffset(m.positions[i])
}

// findCode returns the index of the first code block at or after from,
// moving in direction step, or -1 if there is none.
func (m Model) findCode(from, step int) int {
	if m.doc == nil {
		return -1
	}
	for i := from; i >= 0 && i < len(m.doc.Blocks); i += step {
		if m.doc.Blocks[i].Mode == docblocks.ModeCode {
			return i
		}
	}
	return -1
}

func (m *Model) copyActive() {
	if m.doc == nil || m.active >= len(m.doc.Blocks) {
		return
	}
	if m.clipboard == nil {
		m.status = "clipboard unavailable"
		return
	}
	if err := m.clipboard.Copy(m.doc.Blocks[m.active].Content); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied block %d", m.active+1)
}

func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// statusBarView renders the status bar with position info.
func (m Model) statusBarView() string {
	barStyle := m.newStyle().
		Background(lipgloss.Color(m.palette.UIBackground)).
		Foreground(lipgloss.Color(m.palette.Foreground))

	dimStyle := m.newStyle().
		Background(lipgloss.Color(m.palette.UIBackground)).
		Foreground(lipgloss.Color(m.palette.Muted))

	sepStyle := m.newStyle().
		Background(lipgloss.Color(m.palette.UIBackground)).
		Foreground(lipgloss.Color(m.palette.UIForeground))

	sep := sepStyle.Render(" │ ")
	content := barStyle.Render(m.blockPosition()) + sep +
		barStyle.Render(m.scrollPosition()) + sep
	if m.status != "" {
		content += barStyle.Render(m.status) + sep
	}
	content += dimStyle.Render("j/k:scroll  n/N:block  c/C:code  y:copy  q:quit")

	return padLine(content, m.width)
}

// blockPosition describes the active block, e.g. "block 2/5 code L4-6".
func (m Model) blockPosition() string {
	total := len(m.positions)
	if total == 0 {
		return "no blocks"
	}
	b := m.doc.Blocks[m.active]
	w := digitWidth(total)
	return fmt.Sprintf("block %*d/%-*d %s L%d-%d", w, m.active+1, w, total, b.Mode, b.Line, b.EndLine)
}

// scrollPosition returns a string indicating the scroll position.
func (m Model) scrollPosition() string {
	if m.viewport.AtTop() {
		return "Top"
	}
	if m.viewport.AtBottom() {
		return "Bot"
	}
	percent := int(m.viewport.ScrollPercent() * 100)
	return fmt.Sprintf("%2d%%", percent)
}

// padLine pads a line with spaces to the specified display width.
func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth >= width {
		return line
	}
	return line + fmt.Sprintf("%*s", width-lineWidth, "")
}

// Viewer implements docblocks.Viewer using a Bubble Tea TUI.
type Viewer struct {
	modelOpts   []ModelOption
	programOpts []tea.ProgramOption
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithModelOptions sets options applied to every model the viewer creates.
func WithModelOptions(opts ...ModelOption) ViewerOption {
	return func(v *Viewer) {
		v.modelOpts = append(v.modelOpts, opts...)
	}
}

// WithProgramOptions adds Bubble Tea program options, e.g. custom IO.
func WithProgramOptions(opts ...tea.ProgramOption) ViewerOption {
	return func(v *Viewer) {
		v.programOpts = append(v.programOpts, opts...)
	}
}

// NewViewer creates a new Viewer.
func NewViewer(opts ...ViewerOption) *Viewer {
	v := &Viewer{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// View displays doc and blocks until the user exits or ctx is cancelled.
func (v *Viewer) View(ctx context.Context, doc *docblocks.Document) error {
	m := NewModel(doc, v.modelOpts...)
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, v.programOpts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
