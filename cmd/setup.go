package cmd

import (
	"errors"
	"fmt"

	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/tui/forms"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	// Roster size is informational only; a missing database is fine here.
	count := 0
	if r, err := openRoster(cfg); err == nil {
		if ps, err := r.List(); err == nil {
			count = len(ps)
		}
		_ = r.Close()
	}

	vals := forms.SetupFrom(cfg)
	if err := forms.NewSetup(count, rosterPath(cfg), &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `caseload setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
