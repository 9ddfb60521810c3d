package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/tui/theme"
)

// BudgetUsed returns the fraction of the plan budget already spent,
// clamped to [0, 1]. A zero budget reports 0.
func BudgetUsed(m model.Metrics) float64 {
	if m.Budget <= 0 {
		return 0
	}
	return max(0, min(1-m.Balance/m.Budget, 1))
}

// BudgetBar renders a labelled bar of budget spent, coloured by status.
func BudgetBar(label string, m model.Metrics, labelW, barWidth int) string {
	t := theme.Active
	pct := BudgetUsed(m)
	color := t.StatusColor(m.Status)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%% used", pct*100))
}
