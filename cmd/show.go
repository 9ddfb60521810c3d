package cmd

import (
	"fmt"
	"strings"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/viability"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <participant>",
	Short: "Plan health, trajectory and balance history for one participant",
	Long:  "Show one participant. The reference may be an id, id prefix, NDIS number or name.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	m, today, err := resolveMetrics(r, args[0])
	if err != nil {
		return err
	}

	// An unreadable plan end is kept as typed; flag the substituted date.
	fallback := ""
	if _, ok := viability.ResolvePlanEnd(m.PlanEnd, today); !ok {
		fallback = " " + cli.Warn("(fallback)")
	}
	runOut := "never"
	if !m.Unbounded() {
		runOut = cli.FormatDate(m.DepletionDate)
	}

	title := m.Name
	if m.NDISNumber != "" {
		title = fmt.Sprintf("%s (%s)", m.Name, m.NDISNumber)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Printf("  PLAN HEALTH: %s\n\n", cli.RenderStatus(m.Status))

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Support Level", string(m.Level)},
			{"Hourly Rate", cli.FormatCurrency(m.Rate)},
			{"Total Budget", cli.FormatCurrency(m.Budget)},
			{"Current Balance", cli.FormatCurrency(m.Balance)},
			{"---"},
			{"Weekly Burn", fmt.Sprintf("%s (%s)", cli.FormatCurrency(m.WeeklyCost), cli.FormatHours(m.Hours))},
			{"Plan Ends", fmt.Sprintf("%s%s (%s left)", cli.FormatDate(m.PlanEndDate), fallback, cli.FormatWeeks(m.WeeksRemaining))},
			{"Runway", cli.FormatRunway(m)},
			{"Funds Run Out", runOut},
			{"Projected Outcome", cli.RenderSigned(m.Surplus)},
		},
	}))

	traj := viability.Trajectory(m, today)
	actual := make([]float64, len(traj))
	ideal := make([]float64, len(traj))
	for i, p := range traj {
		actual[i] = p.Actual
		ideal[i] = p.Ideal
	}
	fmt.Printf("  Trajectory (%d weeks)\n", len(traj)-1)
	fmt.Printf("  Actual  %s\n", lipgloss.NewStyle().Foreground(cli.StatusColor(m.Status)).Render(cli.RenderSparkline(actual)))
	fmt.Printf("  Ideal   %s\n\n", cli.Muted(cli.RenderSparkline(ideal)))

	history, err := r.BalanceHistory(m.ID)
	if err != nil {
		return fmt.Errorf("reading balance history: %w", err)
	}
	if len(history) > 1 {
		values := make([]float64, len(history))
		for i, e := range history {
			values[i] = e.Balance
		}
		last := history[len(history)-1]
		fmt.Printf("  Balance History  %s  (%d entries, last %s)\n\n",
			cli.RenderSparkline(values), len(history), cli.FormatRelative(last.RecordedAt, today))
	}

	if notes := strings.TrimSpace(m.Notes); notes != "" {
		fmt.Println("  Strategy Notes")
		for _, line := range strings.Split(notes, "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}

	return nil
}
