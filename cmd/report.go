package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/report"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the caseload master report (.docx)",
	RunE:  runReport,
}

var (
	reportOutput string
	reportSort   string
)

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (default Caseload_Report_<date>.docx)")
	reportCmd.Flags().StringVar(&reportSort, "sort", "name", "Participant page order")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	key, err := pipeline.ParseSortKey(reportSort)
	if err != nil {
		return err
	}

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

	path := reportOutput
	if path == "" {
		path = filepath.Join(cfg.Report.OutputDir, report.DefaultFilename(result.Today))
	}

	ms := pipeline.SortMetrics(result.Metrics, key)
	return writeOutput(path, func(w io.Writer) error {
		return report.WriteCaseload(w, ms, result.Today)
	}, fmt.Sprintf("Wrote report for %d participants", len(ms)))
}
