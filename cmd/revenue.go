package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"

	"github.com/spf13/cobra"
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Revenue breakdown by support level",
	RunE:  runRevenue,
}

func init() {
	rootCmd.AddCommand(revenueCmd)
}

func runRevenue(_ *cobra.Command, _ []string) error {
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

	levels := pipeline.AggregateLevels(result.Metrics)

	fmt.Println()
	fmt.Println(cli.RenderTitle("REVENUE BY SUPPORT LEVEL"))
	fmt.Println()

	rows := make([][]string, 0, len(levels)+2)
	var totalHours, totalWeekly, totalFunds float64
	for _, ls := range levels {
		rows = append(rows, []string{
			ls.Level.Short(),
			cli.FormatCount(ls.Participants),
			fmt.Sprintf("%.1f", ls.Hours),
			cli.FormatCurrency(ls.WeeklyBurn),
			cli.FormatCurrency(ls.MonthlyRevenue),
			cli.FormatWholeCurrency(ls.Funds),
			cli.FormatPercent(ls.SharePercent),
		})
		totalHours += ls.Hours
		totalWeekly += ls.WeeklyBurn
		totalFunds += ls.Funds
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"TOTAL",
		cli.FormatCount(result.Stats.ActiveParticipants),
		fmt.Sprintf("%.1f", totalHours),
		cli.FormatCurrency(totalWeekly),
		cli.FormatCurrency(result.Stats.MonthlyRevenue),
		cli.FormatWholeCurrency(totalFunds),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Level", "Participants", "Hrs/wk", "Weekly", "Monthly", "Funds", "Share"},
		Rows:    rows,
	}))

	maxRevenue := 0.0
	for _, ls := range levels {
		maxRevenue = max(maxRevenue, ls.MonthlyRevenue)
	}
	for _, ls := range levels {
		color := cli.ColorAccent
		if ls.Level == model.Level3 {
			color = cli.ColorOrange
		}
		fmt.Printf("%s %s\n",
			cli.RenderHorizontalBar(ls.Level.Short(), ls.MonthlyRevenue, maxRevenue, 30, color),
			cli.FormatWholeCurrency(ls.MonthlyRevenue))
	}
	fmt.Println()

	return nil
}
