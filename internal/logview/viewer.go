package logview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/matrixlogger/mxl/internal/ui"
	"github.com/matrixlogger/mxl/pkg/types"
)

// FetchThreshold is how close to the bottom of the loaded list the
// cursor may get before the next page is requested.
const FetchThreshold = 5

const timeLayout = "15:04:05"

// pageMsg carries a finished page fetch back into the model.
type pageMsg struct {
	gen  uint64
	page *types.LogPage
	err  error
}

// Viewer is the bubbletea model for the interactive log stream.
type Viewer struct {
	paginator *Paginator
	appName   string

	cursor   int
	offset   int // first visible row
	expanded map[string]bool

	termWidth  int
	termHeight int
	quitting   bool
}

// NewViewer creates a viewer over a paginator for the given app.
func NewViewer(p *Paginator, appName string) Viewer {
	return Viewer{
		paginator:  p,
		appName:    appName,
		expanded:   make(map[string]bool),
		termWidth:  80,
		termHeight: 24,
	}
}

// Init implements tea.Model
func (m Viewer) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.fetchInitial())
}

func (m Viewer) fetchInitial() tea.Cmd {
	gen := m.paginator.BeginInitial()
	p := m.paginator
	return func() tea.Msg {
		page, err := p.FetchPage(context.Background(), "")
		return pageMsg{gen: gen, page: page, err: err}
	}
}

// fetchMore requests the next page when the scroll position warrants
// it. The paginator's guard makes rapid repeated triggers a no-op.
func (m Viewer) fetchMore() tea.Cmd {
	cursor, gen, ok := m.paginator.BeginMore()
	if !ok {
		return nil
	}
	p := m.paginator
	return func() tea.Msg {
		page, err := p.FetchPage(context.Background(), cursor)
		return pageMsg{gen: gen, page: page, err: err}
	}
}

// nearBottom reports whether the cursor is within FetchThreshold rows
// of the last loaded entry.
func (m Viewer) nearBottom() bool {
	return len(m.paginator.Entries())-1-m.cursor <= FetchThreshold
}

// Update implements tea.Model
func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.clampScroll()
		return m, nil

	case pageMsg:
		m.paginator.Complete(msg.gen, msg.page, msg.err)
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.paginator.Entries())-1 {
				m.cursor++
			}

		case "pgup":
			m.cursor -= m.pageSize()
			if m.cursor < 0 {
				m.cursor = 0
			}

		case "pgdown":
			m.cursor += m.pageSize()
			if n := len(m.paginator.Entries()); m.cursor >= n {
				m.cursor = n - 1
			}

		case "g", "home":
			m.cursor = 0

		case "G", "end":
			m.cursor = len(m.paginator.Entries()) - 1

		case "enter":
			if entry := m.entryAtCursor(); entry != nil && len(entry.Metadata) > 0 {
				m.expanded[entry.ID] = !m.expanded[entry.ID]
			}

		case "r":
			return m, m.fetchInitial()
		}

		if m.cursor < 0 {
			m.cursor = 0
		}
		m.clampScroll()

		if m.nearBottom() {
			return m, m.fetchMore()
		}
		return m, nil
	}

	return m, nil
}

func (m Viewer) entryAtCursor() *types.LogEntry {
	entries := m.paginator.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return nil
	}
	return &entries[m.cursor]
}

// pageSize is the number of log rows that fit between header and status bar.
func (m Viewer) pageSize() int {
	size := m.termHeight - 4
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Viewer) clampScroll() {
	if n := len(m.paginator.Entries()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize() {
		m.offset = m.cursor - m.pageSize() + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model
func (m Viewer) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	entries := m.paginator.Entries()

	// Header
	title := fmt.Sprintf(" %s — %d entries", m.appName, len(entries))
	sb.WriteString(ui.HeaderStyle.Render(padLine(title, m.termWidth)))
	sb.WriteString("\n")
	sb.WriteString(ui.MutedStyle.Render(strings.Repeat(ui.Horizontal, max(m.termWidth, 1))))
	sb.WriteString("\n")

	end := m.offset + m.pageSize()
	if end > len(entries) {
		end = len(entries)
	}

	if len(entries) == 0 {
		sb.WriteString(ui.MutedStyle.Render(" No log entries"))
		sb.WriteString("\n")
	}

	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderRow(entries[i], i == m.cursor))
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderStatusBar())
	return sb.String()
}

func (m Viewer) renderRow(entry types.LogEntry, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	level := strings.ToUpper(string(entry.EffectiveLevel()))
	line := fmt.Sprintf("%s[%s] [%-5s] %s",
		marker,
		entry.Timestamp.Local().Format(timeLayout),
		level,
		strings.ReplaceAll(entry.Message, "\n", " "))
	line = padLine(line, m.termWidth)

	rendered := ui.LevelStyle(entry.EffectiveLevel()).Render(line)
	if m.expanded[entry.ID] && len(entry.Metadata) > 0 {
		rendered += "\n" + ui.MutedStyle.Render(padLine("      "+compactJSON(entry.Metadata), m.termWidth))
	}
	return rendered
}

func (m Viewer) renderStatusBar() string {
	var status string
	switch m.paginator.State() {
	case StateFetchingInitial:
		status = "loading…"
	case StateFetchingMore:
		status = "loading more…"
	case StateExhausted:
		status = "end of stream"
	case StateError:
		status = "error: " + m.paginator.Err().Error()
	default:
		status = "more available"
	}

	left := fmt.Sprintf(" %d/%d  %s", m.cursor+1, len(m.paginator.Entries()), status)
	hints := "[enter:metadata] [r:reload] [q:quit]"

	padding := m.termWidth - runewidth.StringWidth(left) - runewidth.StringWidth(hints)
	if padding < 1 {
		padding = 1
	}
	return ui.MutedStyle.Render(left) + strings.Repeat(" ", padding) + ui.HintStyle.Render(hints)
}

// Run displays the interactive viewer until the user quits.
func Run(p *Paginator, appName string) error {
	program := tea.NewProgram(NewViewer(p, appName), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running log viewer: %w", err)
	}
	return nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func padLine(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if width > 0 && sw > width {
		return runewidth.Truncate(s, width, "...")
	}
	if width > sw {
		return s + strings.Repeat(" ", width-sw)
	}
	return s
}
