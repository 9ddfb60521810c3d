package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
)

// Draft is a pre-filled viability update email.
type Draft struct {
	Subject string
	Body    string
}

// EmailDraft composes the team update for one participant.
func EmailDraft(m model.Metrics, today time.Time) Draft {
	notes := strings.TrimSpace(m.Notes)
	if notes == "" {
		notes = "No strategy notes recorded."
	}
	return Draft{
		Subject: fmt.Sprintf("Viability Update: %s - %s", m.Name, today.Format("02 Jan 2006")),
		Body: fmt.Sprintf("Hi Team,\n\nCurrent Status: %s\nBalance: %s\nPlan Ends: %s\n\nStrategy:\n%s",
			m.Status, cli.FormatCurrency(m.Balance), cli.FormatDate(m.PlanEndDate), notes),
	}
}

// MailtoURL renders the draft as a mailto: link with no recipient.
func (d Draft) MailtoURL() string {
	return "mailto:?subject=" + mailtoEscape(d.Subject) + "&body=" + mailtoEscape(d.Body)
}

// mailtoEscape percent-encodes for RFC 6068, where "+" is not a space.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
