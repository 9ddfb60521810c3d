package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Participant table with viability metrics",
	RunE:    runList,
}

var (
	listSort   string
	listStatus string
	listSearch string
	listLimit  int
)

func init() {
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort by name, runway, surplus, plan-end, status or balance (default from config)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only show one status (robust, sustainable, monitoring, critical)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by name or NDIS number (substring match)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Number of participants to show (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	sortRaw := listSort
	if sortRaw == "" {
		sortRaw = cfg.General.DefaultSort
	}
	key, err := pipeline.ParseSortKey(sortRaw)
	if err != nil {
		return err
	}

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

	ms := result.Metrics
	if listStatus != "" {
		st, err := model.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		ms = pipeline.FilterByStatus(ms, st)
	}
	ms = pipeline.FilterByName(ms, listSearch)
	ms = pipeline.SortMetrics(ms, key)

	if len(ms) == 0 {
		fmt.Println("\n  No participants match the filter.")
		return nil
	}

	total := len(ms)
	if listLimit > 0 && len(ms) > listLimit {
		ms = ms[:listLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PARTICIPANTS  (showing %d of %d)", len(ms), total)))
	fmt.Println()

	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			cli.Truncate(m.Name, 22),
			m.Level.Short(),
			cli.FormatWholeCurrency(m.Balance),
			cli.FormatHours(m.Hours),
			cli.FormatShortDate(m.PlanEndDate),
			cli.FormatRunway(m),
			cli.RenderSigned(m.Surplus),
			cli.RenderStatus(m.Status),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Participant", "Level", "Balance", "Hours", "Plan Ends", "Runway", "Outcome", "Status"},
		Rows:    rows,
	}))

	return nil
}
