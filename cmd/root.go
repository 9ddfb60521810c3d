package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/logger"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/store"
	"github.com/xyston/caseload/internal/viability"

	"github.com/spf13/cobra"
)

var (
	flagDB       string
	flagToday    string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "caseload",
	Short: "Support coordination caseload viability",
	Long:  "Track NDIS participant budgets: runway, plan health, revenue and reports.",
	RunE:  runDashboard,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Roster database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Reference date YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Warning: %s (using defaults)\n", err)
	}
	return cfg
}

func rosterPath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.DBPath(cfg)
}

// referenceDate is local midnight of --today, or of the wall clock.
func referenceDate() (time.Time, error) {
	if flagToday == "" {
		return viability.Today(time.Now()), nil
	}
	t, err := time.ParseInLocation(viability.PlanEndLayout, flagToday, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q (want YYYY-MM-DD)", flagToday)
	}
	return t, nil
}

func newLogger(mode string) *logger.Logger {
	log, err := logger.New(mode, flagLogLevel)
	if err != nil {
		return logger.Nop()
	}
	return log
}

func openRoster(cfg config.Config) (*store.Roster, error) {
	r, err := store.Open(rosterPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	return r, nil
}

// loadData is the shared loading path used by the read-only commands.
func loadData(r *store.Roster) (*pipeline.LoadResult, error) {
	today, err := referenceDate()
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Load(r, today)
	if err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %s participants (as of %s)\n",
			cli.FormatCount(len(result.Participants)), result.Today.Format("02 Jan 2006"))
	}
	return result, nil
}

// resolveMetrics finds one participant by reference and computes its metrics.
func resolveMetrics(r *store.Roster, ref string) (model.Metrics, time.Time, error) {
	today, err := referenceDate()
	if err != nil {
		return model.Metrics{}, time.Time{}, err
	}
	p, err := r.Resolve(ref)
	if err != nil {
		return model.Metrics{}, time.Time{}, err
	}
	return viability.Compute(p, today), today, nil
}

// rateFor prices a tier with the configured overrides.
func rateFor(cfg config.Config, today time.Time) func(model.SupportLevel) float64 {
	return func(level model.SupportLevel) float64 {
		return config.ResolveRate(cfg, level, today)
	}
}

func printEmptyRoster() {
	fmt.Println("\n  No participants on the roster.")
	fmt.Println("  Add one with `caseload add` or import a spreadsheet with `caseload import`.")
}
