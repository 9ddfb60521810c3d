package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/tui/forms"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every participant",
	RunE:  runReset,
}

var resetYes bool

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	n, err := r.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("  Roster is already empty.")
		return nil
	}

	if !resetYes {
		ok, err := forms.Confirm(fmt.Sprintf("Reset all data? %d participants will be removed.", n),
			"Take a backup first with `caseload backup save`.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := r.Reset(); err != nil {
		return fmt.Errorf("resetting roster: %w", err)
	}
	fmt.Printf("  Removed %d participants.\n", n)
	return nil
}
