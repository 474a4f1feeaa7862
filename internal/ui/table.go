package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matrixlogger/mxl/pkg/types"
)

// Column describes one table column
type Column struct {
	Header string
	Width  int
	Style  lipgloss.Style
}

// Table renders rows in a styled box table
type Table struct {
	columns []Column
}

// NewTable creates a table with the given columns
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// Render builds the boxed table for the given rows
func (t *Table) Render(rows [][]string) string {
	var sb strings.Builder

	t.writeBorder(&sb, TopLeft, TopT, TopRight)

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for _, col := range t.columns {
		cell := fmt.Sprintf(" %s ", padRight(col.Header, col.Width))
		sb.WriteString(HeaderStyle.Render(cell))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	t.writeBorder(&sb, LeftT, Cross, RightT)

	for _, row := range rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, col := range t.columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cell := fmt.Sprintf(" %s ", padRight(value, col.Width))
			sb.WriteString(col.Style.Render(cell))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	t.writeBorder(&sb, BottomLeft, BottomT, BottomRight)
	return sb.String()
}

// Print renders the table to stdout
func (t *Table) Print(rows [][]string) {
	fmt.Print(t.Render(rows))
}

func (t *Table) writeBorder(sb *strings.Builder, left, mid, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, col := range t.columns {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, col.Width+2)))
		if i < len(t.columns)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

// PrintOrganizationTable prints organizations in a styled box table
func PrintOrganizationTable(orgs []types.Organization, currentSlug string) {
	table := NewTable(
		Column{"", 1, ValueStyle},
		Column{"Slug", 20, IDStyle},
		Column{"Name", 28, NameStyle},
		Column{"Role", 8, ValueStyle},
		Column{"Apps", 5, ValueStyle},
		Column{"Members", 7, ValueStyle},
	)

	rows := make([][]string, 0, len(orgs))
	for _, org := range orgs {
		marker := ""
		if org.Slug == currentSlug {
			marker = "*"
		}
		apps, members := "-", "-"
		if org.Stats != nil {
			apps = fmt.Sprintf("%d", org.Stats.Apps)
			members = fmt.Sprintf("%d", org.Stats.Members)
		}
		rows = append(rows, []string{marker, org.Slug, org.Name, string(org.Role), apps, members})
	}
	table.Print(rows)
}

// PrintAppTable prints apps in a styled box table. API keys are shown
// truncated; `mxl apps get` reveals the full key.
func PrintAppTable(apps []types.App) {
	table := NewTable(
		Column{"ID", 24, IDStyle},
		Column{"Name", 24, NameStyle},
		Column{"API Key", 14, SecretStyle},
		Column{"Retention", 9, ValueStyle},
		Column{"Created", 10, MutedStyle},
	)

	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			app.ID,
			app.Name,
			TruncateSecret(app.APIKey),
			fmt.Sprintf("%dd", app.RetentionDays),
			app.CreatedAt.Format("2006-01-02"),
		})
	}
	table.Print(rows)
}

// PrintMemberTable prints organization members in a styled box table
func PrintMemberTable(members []types.Member) {
	table := NewTable(
		Column{"ID", 24, IDStyle},
		Column{"Name", 20, NameStyle},
		Column{"Email", 26, ValueStyle},
		Column{"Role", 8, ValueStyle},
		Column{"Status", 8, ValueStyle},
		Column{"Joined", 10, MutedStyle},
	)

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		joined := "-"
		if !m.JoinedAt.IsZero() {
			joined = m.JoinedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			m.ID,
			m.User.Name,
			m.User.Email,
			string(m.Role),
			string(m.Status),
			joined,
		})
	}
	table.Print(rows)
}

// TruncateSecret shortens an API key for display
func TruncateSecret(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "…" + key[len(key)-4:]
}

// FormatAge renders a timestamp as a short relative age
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
