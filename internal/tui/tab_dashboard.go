package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/tui/components"
	"github.com/xyston/caseload/internal/tui/theme"
)

// watchlistLimit caps the critical watchlist on the dashboard.
const watchlistLimit = 8

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	ms := a.metrics()
	stats := model.PortfolioStats{}
	if a.result != nil {
		stats = a.result.Stats
	}

	var b strings.Builder

	critColor := t.GreenBright
	if stats.CriticalRisks > 0 {
		critColor = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Funds Under Management", Value: cli.FormatWholeCurrency(stats.TotalFunds), Note: "remaining balances"},
		{Label: "Projected Monthly Revenue", Value: cli.FormatWholeCurrency(stats.MonthlyRevenue), Note: "weekly burn × 4.33"},
		{Label: "Active Participants", Value: cli.FormatCount(stats.ActiveParticipants)},
		{Label: "Critical Risks", Value: cli.FormatCount(stats.CriticalRisks), Color: critColor},
	}, cw))
	b.WriteString("\n")

	if len(ms) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No participants yet. Press [a] to add one, or run `caseload import`.")
		b.WriteString(components.ContentCard("Roster", empty, cw))
		return b.String()
	}

	radar := a.renderRadar
	watch := a.renderWatchlist
	if a.isCompactLayout() {
		b.WriteString(radar(cw))
		b.WriteString("\n")
		b.WriteString(watch(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{radar(halves[0]), watch(halves[1])}))
	}
	b.WriteString("\n")
	b.WriteString(a.renderRosterTable(ms, cw))
	return b.String()
}

// renderRadar draws one bar per status, scaled to the largest bucket.
func (a App) renderRadar(w int) string {
	t := theme.Active
	counts := pipeline.CountByStatus(a.metrics())
	innerW := components.CardInnerWidth(w)

	peak := 0
	for _, n := range counts {
		peak = max(peak, n)
	}

	const labelW = 20
	numW := 4
	barMax := max(innerW-labelW-numW-2, 1)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	var body strings.Builder
	for _, st := range model.Statuses {
		n := counts[st]
		barLen := 0
		if peak > 0 {
			barLen = n * barMax / peak
		}
		bar := lipgloss.NewStyle().Foreground(t.StatusColor(st)).Background(t.Surface).
			Render(strings.Repeat("█", barLen))
		fmt.Fprintf(&body, "%s %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, st.String())),
			numStyle.Render(fmt.Sprintf("%*d", numW, n)),
			bar)
	}
	return components.ContentCard("Viability Radar", strings.TrimSuffix(body.String(), "\n"), w)
}

// renderWatchlist lists critical participants, soonest depletion first.
func (a App) renderWatchlist(w int) string {
	t := theme.Active
	watch := pipeline.Watchlist(a.metrics())
	innerW := components.CardInnerWidth(w)

	if len(watch) == 0 {
		ok := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).
			Render("No participants are in critical shortfall.")
		return components.ContentCard("Critical Watchlist", ok, w)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	redStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const runwayW, dateW = 10, 10
	nameW := max(innerW-runwayW-dateW-2, 8)

	var body strings.Builder
	for i, m := range watch {
		if i == watchlistLimit {
			fmt.Fprintf(&body, "%s", mutedStyle.Render(fmt.Sprintf("… and %d more", len(watch)-i)))
			break
		}
		fmt.Fprintf(&body, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(m.Name, nameW))),
			redStyle.Render(fmt.Sprintf("%*s", runwayW, cli.FormatRunway(m))),
			mutedStyle.Render(fmt.Sprintf("%*s", dateW, cli.FormatDate(m.DepletionDate))))
	}
	return components.ContentCard(fmt.Sprintf("Critical Watchlist (%d)", len(watch)),
		strings.TrimSuffix(body.String(), "\n"), w)
}

// renderRosterTable is the full participant table, most at-risk first.
func (a App) renderRosterTable(ms []model.Metrics, cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	compact := a.isCompactLayout()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const balW, runW, outW, statW = 12, 9, 13, 20
	fixed := balW + runW + outW + statW + 4
	if !compact {
		fixed += 9 + 11 // level + plan end
	}
	nameW := max(innerW-fixed, 10)

	var body strings.Builder
	if compact {
		body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %-*s",
			nameW, "Participant", balW, "Balance", runW, "Runway", outW, "Outcome", statW, "Status")))
	} else {
		body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-8s %*s %*s %*s %-10s %-*s",
			nameW, "Participant", "Level", balW, "Balance", runW, "Runway", outW, "Outcome", "Plan End", statW, "Status")))
	}
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	for _, m := range pipeline.SortMetrics(ms, pipeline.SortStatus) {
		outStyle := rowStyle.Foreground(t.Green)
		if m.Surplus < 0 {
			outStyle = rowStyle.Foreground(t.Red)
		}
		statStyle := rowStyle.Foreground(t.StatusColor(m.Status))

		name := fmt.Sprintf("%-*s ", nameW, truncStr(m.Name, nameW))
		if !compact {
			name += fmt.Sprintf("%-8s ", m.Level.Short())
		}
		body.WriteString(rowStyle.Render(name))
		body.WriteString(rowStyle.Render(fmt.Sprintf("%*s %*s ", balW, cli.FormatWholeCurrency(m.Balance), runW, cli.FormatRunway(m))))
		body.WriteString(outStyle.Render(fmt.Sprintf("%*s ", outW, cli.FormatSignedCurrency(m.Surplus))))
		if !compact {
			body.WriteString(mutedStyle.Render(fmt.Sprintf("%-10s ", cli.FormatDate(m.PlanEndDate))))
		}
		body.WriteString(statStyle.Render(fmt.Sprintf("%-*s", statW, truncStr(m.Status.String(), statW))))
		body.WriteString("\n")
	}

	return components.ContentCard("Roster", strings.TrimSuffix(body.String(), "\n"), cw)
}
