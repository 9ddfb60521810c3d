package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/pipeline"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Week-by-week projection of portfolio funds",
	RunE:  runForecast,
}

var (
	forecastWeeks int
	forecastEvery int
)

func init() {
	forecastCmd.Flags().IntVarP(&forecastWeeks, "weeks", "w", 26, "Number of weeks to project")
	forecastCmd.Flags().IntVar(&forecastEvery, "every", 1, "Show every Nth week")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	if forecastWeeks < 1 {
		return fmt.Errorf("--weeks must be at least 1")
	}
	step := max(forecastEvery, 1)

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

	points := pipeline.ProjectPortfolio(result.Metrics, result.Today, forecastWeeks)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PORTFOLIO FORECAST  Next %d weeks", forecastWeeks)))
	fmt.Println()

	rows := make([][]string, 0, len(points)/step+1)
	balances := make([]float64, 0, len(points))
	for i, p := range points {
		balances = append(balances, p.Balance)
		if i%step != 0 && i != len(points)-1 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Week),
			cli.FormatDate(p.Date),
			cli.FormatWholeCurrency(p.Balance),
			cli.FormatWholeCurrency(p.WeeklyBurn),
			cli.FormatCount(p.Depleted),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week", "Date", "Funds", "Weekly Burn", "Depleted"},
		Rows:    rows,
	}))
	fmt.Printf("  Funds  %s\n\n", cli.RenderSparkline(balances))

	return nil
}
