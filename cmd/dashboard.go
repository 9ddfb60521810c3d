package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Portfolio summary, viability radar and critical watchlist",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	result, err := loadData(r)
	if err != nil {
		return err
	}
	if len(result.Metrics) == 0 {
		printEmptyRoster()
		return nil
	}

	stats := result.Stats

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASELOAD  %s", cli.FormatLongDate(result.Today))))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Funds Under Management", cli.FormatCurrency(stats.TotalFunds)},
			{"Projected Monthly Revenue", cli.FormatCurrency(stats.MonthlyRevenue)},
			{"---"},
			{"Active Participants", cli.FormatCount(stats.ActiveParticipants)},
			{"Critical Risks", cli.FormatCount(stats.CriticalRisks)},
		},
	}))

	// Viability radar
	counts := pipeline.CountByStatus(result.Metrics)
	maxCount := 0
	for _, n := range counts {
		maxCount = max(maxCount, n)
	}
	fmt.Println("  Viability Radar")
	for _, st := range model.Statuses {
		fmt.Printf("%s %d\n",
			cli.RenderHorizontalBar(st.String(), float64(counts[st]), float64(maxCount), 30, cli.StatusColor(st)),
			counts[st])
	}
	fmt.Println()

	watch := pipeline.Watchlist(result.Metrics)
	if len(watch) == 0 {
		fmt.Println("  " + cli.Muted("No participants are in critical shortfall."))
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(watch))
	for _, m := range watch {
		rows = append(rows, []string{
			cli.Truncate(m.Name, 24),
			cli.FormatShortDate(m.DepletionDate),
			cli.FormatRunway(m),
			cli.FormatSignedCurrency(m.Surplus),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Critical Risk Watchlist",
		Headers: []string{"Participant", "Runs Out", "Runway (wks)", "Shortfall"},
		Rows:    rows,
	}))

	return nil
}
