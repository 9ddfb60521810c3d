package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/tui/forms"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <participant>",
	Aliases: []string{"rm"},
	Short:   "Remove a participant from the roster",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := r.Resolve(args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		ok, err := forms.Confirm(fmt.Sprintf("Delete %s?", p.Name), "Their balance history is removed too.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := r.Delete(p.ID); err != nil {
		return fmt.Errorf("deleting participant: %w", err)
	}
	fmt.Printf("  Deleted %s\n", p.Name)
	return nil
}
