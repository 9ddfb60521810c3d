// Package cmd implements the caseload CLI commands.
package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	today, err := referenceDate()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Roster:       %s\n", rosterPath(cfg))
	fmt.Printf("    Default sort: %s\n", cfg.General.DefaultSort)
	fmt.Println()

	fmt.Println("  [Plan defaults]")
	fmt.Printf("    Budget:    %s\n", cli.FormatCurrency(cfg.Plan.Budget))
	fmt.Printf("    Balance:   %s\n", cli.FormatCurrency(cfg.Plan.Balance))
	fmt.Printf("    Hours:     %s\n", cli.FormatHours(cfg.Plan.Hours))
	fmt.Printf("    Plan days: %d\n", cfg.Plan.PlanDays)
	fmt.Printf("    Level:     %s\n", model.ParseSupportLevel(cfg.Plan.Level).Short())
	fmt.Println()

	fmt.Println("  [Rates]")
	for _, l := range model.Levels {
		fmt.Printf("    %s: %s/hr\n", l.Short(), cli.FormatCurrency(config.ResolveRate(cfg, l, today)))
	}
	fmt.Println()

	fmt.Println("  [AI]")
	if key := config.GetGeminiAPIKey(cfg); key != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key: not configured")
	}
	fmt.Printf("    Model:   %s\n", cfg.AI.Model)
	fmt.Printf("    Timeout: %s\n", config.AITimeout(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  Run `caseload setup` to reconfigure.")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
