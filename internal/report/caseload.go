package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/viability"
)

// ReportTitle heads every caseload report.
const ReportTitle = "XYSTON | Caseload Master Report"

const (
	colorCritical = "FF0000"
	colorHealthy  = "2EA043"
)

// DefaultFilename returns the suggested report file name for a date.
func DefaultFilename(today time.Time) string {
	return fmt.Sprintf("Caseload_Report_%s.docx", today.Format("2006-01-02"))
}

// BuildCaseload lays out the caseload master report: summary, watchlist,
// overview table and one page per participant.
func BuildCaseload(ms []model.Metrics, today time.Time) *Document {
	stats := viability.Stats(ms)
	d := NewDocument()

	d.Title(ReportTitle)
	d.Text("Date: " + cli.FormatLongDate(today))
	d.Text("Confidential: Internal Use Only")

	d.Heading(1, "Executive Summary")
	d.Paragraph(
		Run{Text: fmt.Sprintf("Total Participants: %d\n", stats.ActiveParticipants), Bold: true},
		Run{Text: "Funds Under Management: " + cli.FormatCurrency(stats.TotalFunds) + "\n"},
		Run{Text: "Projected Monthly Revenue: " + cli.FormatCurrency(stats.MonthlyRevenue)},
	)

	d.Heading(3, "Critical Risk Watchlist")
	critical := 0
	for _, m := range ms {
		if m.Status != model.StatusCriticalShortfall {
			continue
		}
		critical++
		d.Bullet(fmt.Sprintf("%s: Runs out on %s ($%.0f shortfall)",
			m.Name, cli.FormatShortDate(m.DepletionDate), math.Abs(m.Surplus)))
	}
	if critical == 0 {
		d.Text("No participants are in critical shortfall.")
	}

	if len(ms) > 0 {
		d.Heading(2, "Caseload Overview")
		rows := make([][]string, 0, len(ms))
		for _, m := range ms {
			rows = append(rows, []string{
				m.Name,
				m.Status.String(),
				cli.FormatShortDate(m.PlanEndDate),
				cli.FormatSignedCurrency(m.Surplus),
			})
		}
		d.Table([]string{"Participant", "Status", "Plan Ends", "Outcome"}, rows)
	}

	d.PageBreak()

	for i, m := range ms {
		participantPage(d, m)
		if i < len(ms)-1 {
			d.PageBreak()
		}
	}
	return d
}

func participantPage(d *Document, m model.Metrics) {
	d.Heading(1, fmt.Sprintf("%s (%s)", m.Name, m.NDISNumber))
	d.Text("Support Level: " + string(m.Level))

	color := colorHealthy
	if m.Status == model.StatusCriticalShortfall {
		color = colorCritical
	}
	d.Paragraph(Run{Text: "PLAN HEALTH: " + m.Status.String(), Bold: true, Color: color})

	d.Paragraph(Run{Text: strings.Join([]string{
		"Current Balance: " + cli.FormatCurrency(m.Balance),
		fmt.Sprintf("Weekly Burn: %s (%s)", cli.FormatCurrency(m.WeeklyCost), cli.FormatHours(m.Hours)),
		fmt.Sprintf("Plan Ends: %s (%.1f wks left)", cli.FormatDate(m.PlanEndDate), m.WeeksRemaining),
		"Runway: " + cli.FormatRunway(m),
		"Projected Outcome: " + cli.FormatSignedCurrency(m.Surplus),
	}, "\n")})

	if strings.TrimSpace(m.Notes) != "" {
		d.Heading(2, "Strategy Notes")
		d.Text(m.Notes)
	}
}

// WriteCaseload builds and writes the caseload report as .docx.
func WriteCaseload(w io.Writer, ms []model.Metrics, today time.Time) error {
	_, err := BuildCaseload(ms, today).WriteTo(w)
	return err
}
