package casenote

import (
	"fmt"
	"strings"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
)

// BuildPrompt renders the file-note instructions for one participant.
func BuildPrompt(m model.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Act as a Senior NDIS Support Coordinator. Write a strategic file note for: %s.\n\n", m.Name)
	b.WriteString("DATA:\n")
	fmt.Fprintf(&b, "- Status: %s\n", m.Status)
	fmt.Fprintf(&b, "- Balance: $%.2f\n", m.Balance)
	fmt.Fprintf(&b, "- Weekly Burn: $%.2f\n", m.WeeklyCost)
	fmt.Fprintf(&b, "- Plan Ends: %s\n", cli.FormatDate(m.PlanEndDate))
	fmt.Fprintf(&b, "- Outcome: %s (surplus %.2f)\n", outcomeWord(m.Surplus), m.Surplus)
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("- Tone: Professional, Objective, Australian English.\n")
	b.WriteString("- Include: Executive Summary, Risk Assessment, 3 Recommendations.\n")
	b.WriteString("- Max 200 words.\n")
	return b.String()
}

func outcomeWord(surplus float64) string {
	if surplus >= 0 {
		return "Surplus"
	}
	return "Shortfall"
}
