package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matrixlogger/mxl/pkg/types"
)

const (
	listHeight       = 8
	detailLabelWidth = 12
	minWidth         = 60
	maxWidth         = 120
	// Fixed column widths
	colWidthSlug = 22
	colWidthRole = 8
)

// Model represents the bubbletea model for organization selection
type Model struct {
	organizations []types.Organization
	filtered      []types.Organization
	cursor        int
	offset        int // for scrolling
	search        string
	selected      *types.Organization
	quitting      bool
	cancelled     bool
	termWidth     int
	contentWidth  int   // width inside the box (excluding borders)
	colWidths     []int // [Slug, Role, Name]
}

// NewModel creates a new selector model
func NewModel(orgs []types.Organization) Model {
	m := Model{
		organizations: orgs,
		filtered:      orgs,
		termWidth:     80, // default
	}
	m.calculateWidths()
	return m
}

// calculateWidths computes responsive column widths based on terminal size
func (m *Model) calculateWidths() {
	m.contentWidth = m.termWidth - 2
	if m.contentWidth < minWidth {
		m.contentWidth = minWidth
	}
	if m.contentWidth > maxWidth {
		m.contentWidth = maxWidth
	}

	// cursor(3) + Slug + spacing(2) + Role + spacing(2) + Name
	fixedWidth := 3 + colWidthSlug + 2 + colWidthRole + 2
	nameWidth := m.contentWidth - fixedWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	m.colWidths = []int{colWidthSlug, colWidthRole, nameWidth}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = &m.filtered[m.cursor]
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filterOrganizations()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filterOrganizations()
		}
	}

	return m, nil
}

// filterOrganizations filters the list based on the search query
func (m *Model) filterOrganizations() {
	if m.search == "" {
		m.filtered = m.organizations
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, org := range m.organizations {
			if strings.Contains(strings.ToLower(org.Name), query) ||
				strings.Contains(strings.ToLower(org.Slug), query) {
				m.filtered = append(m.filtered, org)
			}
		}
	}
	// Reset cursor if out of bounds
	if m.cursor >= len(m.filtered) {
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		} else {
			m.cursor = 0
		}
	}
	m.offset = 0
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	// Top border
	sb.WriteString(BorderStyle.Render(TopLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(TopRight))
	sb.WriteString("\n")

	// Search input
	searchLine := " > " + m.search
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(NameStyle.Render(padToWidth(searchLine, w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	// Organization list
	visibleEnd := m.offset + listHeight
	if visibleEnd > len(m.filtered) {
		visibleEnd = len(m.filtered)
	}

	for i := m.offset; i < visibleEnd; i++ {
		sb.WriteString(m.renderRow(i))
	}

	// Fill remaining lines if list is short
	for i := len(m.filtered); i < m.offset+listHeight; i++ {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(strings.Repeat(" ", w))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}

	// Separator
	sb.WriteString(BorderStyle.Render(LeftT))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(RightT))
	sb.WriteString("\n")

	// Details panel
	sb.WriteString(m.renderDetailsPanel())

	// Bottom border
	sb.WriteString(BorderStyle.Render(BottomLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(BottomRight))
	sb.WriteString("\n")

	// Status bar
	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

func (m Model) renderRow(idx int) string {
	var sb strings.Builder
	org := m.filtered[idx]
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(Vertical))

	var line strings.Builder
	plainWidth := 0

	if idx == m.cursor {
		line.WriteString(" > ")
	} else {
		line.WriteString("   ")
	}
	plainWidth += 3

	slugText := padRight(org.Slug, m.colWidths[0])
	line.WriteString(IDStyle.Render(slugText))
	line.WriteString("  ")
	plainWidth += m.colWidths[0] + 2

	roleText := padRight(string(org.Role), m.colWidths[1])
	line.WriteString(RoleStyle(org.Role).Render(roleText))
	line.WriteString("  ")
	plainWidth += m.colWidths[1] + 2

	nameText := padRight(org.Name, m.colWidths[2])
	line.WriteString(NameStyle.Render(nameText))
	plainWidth += m.colWidths[2]

	if plainWidth < w {
		line.WriteString(strings.Repeat(" ", w-plainWidth))
	}

	sb.WriteString(line.String())
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderDetailsPanel() string {
	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(HeaderStyle.Render(padToWidth(" Organization Details", w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	if len(m.filtered) == 0 {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(MutedStyle.Render(padToWidth(" No organizations found", w)))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
		return sb.String()
	}

	org := m.filtered[m.cursor]

	retention := "-"
	apps, members := "-", "-"
	if org.Settings != nil {
		retention = fmt.Sprintf("%d days", org.Settings.DefaultRetentionDays)
	}
	if org.Stats != nil {
		apps = fmt.Sprintf("%d", org.Stats.Apps)
		members = fmt.Sprintf("%d", org.Stats.Members)
	}

	details := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"ID:", org.ID, IDStyle},
		{"Name:", org.Name, NameStyle},
		{"Slug:", org.Slug, IDStyle},
		{"Role:", string(org.Role), RoleStyle(org.Role)},
		{"Retention:", retention, ValueStyle},
		{"Apps:", apps, ValueStyle},
		{"Members:", members, ValueStyle},
		{"Created:", org.CreatedAt.Format("2006-01-02 15:04:05"), MutedStyle},
	}

	for _, d := range details {
		sb.WriteString(BorderStyle.Render(Vertical))

		labelText := padRight(d.label, detailLabelWidth)
		valueText := d.value

		maxValueWidth := w - 1 - detailLabelWidth
		if runewidth.StringWidth(valueText) > maxValueWidth {
			valueText = runewidth.Truncate(valueText, maxValueWidth, "...")
		}

		plainWidth := 1 + detailLabelWidth + runewidth.StringWidth(valueText)

		line := MutedStyle.Render(" "+labelText) + d.style.Render(valueText)
		if plainWidth < w {
			line += strings.Repeat(" ", w-plainWidth)
		}

		sb.WriteString(line)
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var sb strings.Builder
	w := m.contentWidth + 2 // include border width for status bar

	countInfo := fmt.Sprintf("  %d/%d organizations", len(m.filtered), len(m.organizations))
	hintsPlain := "[Enter:select] [Esc:cancel]"

	countWidth := runewidth.StringWidth(countInfo)
	hintsWidth := runewidth.StringWidth(hintsPlain)
	padding := w - countWidth - hintsWidth

	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(HintStyle.Render(hintsPlain))
	sb.WriteString("\n")

	return sb.String()
}

func padToWidth(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// SelectOrganization displays an interactive selector and returns the
// chosen organization
func SelectOrganization(orgs []types.Organization) (*types.Organization, error) {
	if len(orgs) == 0 {
		return nil, fmt.Errorf("no organizations available")
	}

	m := NewModel(orgs)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(Model)
	if result.cancelled {
		return nil, fmt.Errorf("selection cancelled")
	}

	return result.selected, nil
}
