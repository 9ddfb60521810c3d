package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/tui/components"
	"github.com/xyston/caseload/internal/tui/theme"
)

func (a App) renderRevenueTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderLevelTable(cw))
	b.WriteString("\n")
	b.WriteString(a.renderForecast(cw))
	return b.String()
}

// renderLevelTable breaks the weekly burn and monthly revenue down by tier.
func (a App) renderLevelTable(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	revStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	shareStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)

	levelColors := []lipgloss.Color{t.BlueBright, t.Magenta, t.Yellow, t.Cyan}

	const numW = 12
	nameW := max(innerW-5*numW-6, 10)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s",
		nameW, "Support Level", numW, "Participants", numW, "Hours/wk", numW, "Weekly Burn", numW, "Monthly Rev", numW-6, "Share")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	var total model.LevelStats
	for i, ls := range a.levels {
		nameStyle := rowStyle.Foreground(levelColors[i%len(levelColors)])
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s ", nameW, truncStr(string(ls.Level), nameW))))
		body.WriteString(rowStyle.Render(fmt.Sprintf("%*d %*s %*s ",
			numW, ls.Participants, numW, cli.FormatHours(ls.Hours), numW, cli.FormatCurrency(ls.WeeklyBurn))))
		body.WriteString(revStyle.Render(fmt.Sprintf("%*s ", numW, cli.FormatCurrency(ls.MonthlyRevenue))))
		body.WriteString(shareStyle.Render(fmt.Sprintf("%*s", numW-6, cli.FormatPercent(ls.SharePercent))))
		body.WriteString("\n")

		total.Participants += ls.Participants
		total.Hours += ls.Hours
		total.WeeklyBurn += ls.WeeklyBurn
		total.MonthlyRevenue += ls.MonthlyRevenue
	}
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*d %*s %*s %*s",
		nameW, "Total", numW, total.Participants, numW, cli.FormatHours(total.Hours),
		numW, cli.FormatCurrency(total.WeeklyBurn), numW, cli.FormatCurrency(total.MonthlyRevenue))))

	// Share bars
	if total.WeeklyBurn > 0 {
		body.WriteString("\n\n")
		barMax := max(innerW-nameW-8, 4)
		for i, ls := range a.levels {
			barLen := int(ls.SharePercent * float64(barMax))
			bar := lipgloss.NewStyle().Foreground(levelColors[i%len(levelColors)]).Background(t.Surface).
				Render(strings.Repeat("█", barLen))
			fmt.Fprintf(&body, "%s %s %s\n",
				mutedStyle.Render(fmt.Sprintf("%-*s", nameW, ls.Level.Short())),
				bar,
				shareStyle.Render(cli.FormatPercent(ls.SharePercent)))
		}
	}

	return components.ContentCard("Revenue by Support Level", strings.TrimSuffix(body.String(), "\n"), cw)
}

// renderForecast charts the summed portfolio balance week by week.
func (a App) renderForecast(cw int) string {
	t := theme.Active
	if len(a.forecast) == 0 {
		return ""
	}
	innerW := components.CardInnerWidth(cw)

	vals := make([]float64, len(a.forecast))
	labels := make([]string, len(a.forecast))
	for i, p := range a.forecast {
		vals[i] = p.Balance
		labels[i] = cli.FormatShortDate(p.Date)
	}

	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}

	last := a.forecast[len(a.forecast)-1]
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	var body strings.Builder
	body.WriteString(components.BarChart(vals, labels, t.Blue, innerW, chartH))
	body.WriteString("\n\n")
	body.WriteString(mutedStyle.Render(fmt.Sprintf("In %d weeks: ", last.Week)))
	body.WriteString(valueStyle.Render(cli.FormatWholeCurrency(last.Balance)))
	body.WriteString(mutedStyle.Render(" remaining, burning "))
	body.WriteString(valueStyle.Render(cli.FormatWholeCurrency(last.WeeklyBurn) + "/wk"))
	if last.Depleted > 0 {
		body.WriteString(mutedStyle.Render(", "))
		body.WriteString(warnStyle.Render(fmt.Sprintf("%d depleted", last.Depleted)))
	}

	return components.ContentCard(fmt.Sprintf("Portfolio Forecast (%d weeks)", last.Week), body.String(), cw)
}
