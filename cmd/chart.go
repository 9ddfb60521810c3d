package cmd

import (
	"fmt"
	"io"

	"github.com/xyston/caseload/internal/chart"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/viability"

	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart [participant]",
	Short: "Render a trajectory chart as PNG (portfolio forecast without a participant)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChart,
}

var (
	chartOutput string
	chartWidth  int
	chartHeight int
	chartWeeks  int
)

func init() {
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "trajectory.png", "Output PNG file")
	chartCmd.Flags().IntVar(&chartWidth, "width", 960, "Image width in pixels")
	chartCmd.Flags().IntVar(&chartHeight, "height", 480, "Image height in pixels")
	chartCmd.Flags().IntVarP(&chartWeeks, "weeks", "w", 26, "Weeks to project for the portfolio forecast")
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	opts := chart.Options{Width: chartWidth, Height: chartHeight}

	if len(args) == 1 {
		m, today, err := resolveMetrics(r, args[0])
		if err != nil {
			return err
		}
		pts := viability.Trajectory(m, today)
		return writeOutput(chartOutput, func(w io.Writer) error {
			return chart.RenderTrajectory(w, "Funding Trajectory: "+m.Name, pts, opts)
		}, fmt.Sprintf("Wrote %d-week trajectory", len(pts)-1))
	}

	result, err := loadData(r)
	if err != nil {
		return err
	}
	if len(result.Metrics) == 0 {
		printEmptyRoster()
		return nil
	}
	pts := pipeline.ProjectPortfolio(result.Metrics, result.Today, chartWeeks)
	return writeOutput(chartOutput, func(w io.Writer) error {
		return chart.RenderForecast(w, "Portfolio Forecast", pts, opts)
	}, fmt.Sprintf("Wrote %d-week forecast", chartWeeks))
}
