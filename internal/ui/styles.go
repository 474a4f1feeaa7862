package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matrixlogger/mxl/pkg/types"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder = "240"
	ColorHeader = "252"
	ColorID     = "214"
	ColorName   = "81"
	ColorValue  = "252"
	ColorMuted  = "240"
	ColorHint   = "245"
	ColorOK     = "82"
	ColorWarn   = "214"
	ColorError  = "196"
	ColorInfo   = "39"
	ColorDebug  = "245"
	ColorSecret = "245"
)

// Shared styles
var (
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	IDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorID))
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorName))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorValue))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOK))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	SecretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecret))

	levelErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	levelWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn))
	levelInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))
	levelDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDebug))
)

// LevelStyle returns the style for a log severity
func LevelStyle(level types.Level) lipgloss.Style {
	switch level {
	case types.LevelError:
		return levelErrorStyle
	case types.LevelWarn:
		return levelWarnStyle
	case types.LevelDebug:
		return levelDebugStyle
	default:
		return levelInfoStyle
	}
}

// RoleStyle returns the style for an organization role
func RoleStyle(role types.Role) lipgloss.Style {
	switch role {
	case types.RoleOwner:
		return WarnStyle
	case types.RoleAdmin:
		return NameStyle
	default:
		return ValueStyle
	}
}

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}
