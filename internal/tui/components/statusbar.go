package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports about the loaded roster.
type StatusInfo struct {
	Today       string // reference date
	DataAge     string // time since the last load
	Message     string // transient feedback, e.g. "Note saved"
	IsError     bool
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := base.Foreground(t.Accent)
	dimStyle := base.Foreground(t.TextDim)
	msgStyle := base.Foreground(t.GreenBright)
	if info.IsError {
		msgStyle = base.Foreground(t.Red)
	}

	left := dimStyle.Render(" ") + keyStyle.Render("[?]") + dimStyle.Render("help  ") +
		keyStyle.Render("[q]") + dimStyle.Render("uit")
	if info.Message != "" {
		left += dimStyle.Render("   ") + msgStyle.Render(info.Message)
	}

	var right []string
	if info.Refreshing {
		right = append(right, base.Foreground(t.Accent).Render("refreshing…"))
	} else if info.AutoRefresh {
		right = append(right, base.Foreground(t.Green).Render("auto"))
	}
	if info.Today != "" {
		right = append(right, dimStyle.Render("as of ")+base.Foreground(t.TextMuted).Render(info.Today))
	}
	if info.DataAge != "" {
		right = append(right, dimStyle.Render("loaded "+info.DataAge))
	}
	rightStr := strings.Join(right, dimStyle.Render(" │ ")) + dimStyle.Render(" ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightStr))
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
