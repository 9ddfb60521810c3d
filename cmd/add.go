package cmd

import (
	"errors"
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/tui/forms"
	"github.com/xyston/caseload/internal/viability"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a participant (interactive form unless --name is given)",
	RunE:  runAdd,
}

var addFields forms.Participant

func init() {
	addCmd.Flags().StringVar(&addFields.Name, "name", "", "Participant name")
	addCmd.Flags().StringVar(&addFields.NDIS, "ndis", "", "NDIS number")
	addCmd.Flags().StringVar(&addFields.Level, "level", "", "Support level (2 or 3)")
	addCmd.Flags().StringVar(&addFields.Budget, "budget", "", "Total budget")
	addCmd.Flags().StringVar(&addFields.Balance, "balance", "", "Current balance")
	addCmd.Flags().StringVar(&addFields.PlanEnd, "plan-end", "", "Plan end date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addFields.Hours, "hours", "", "Hours per week")
	addCmd.Flags().StringVar(&addFields.Notes, "notes", "", "Strategy notes")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	today, err := referenceDate()
	if err != nil {
		return err
	}

	// Fill anything not given on the command line from the plan defaults.
	f := addFields.WithDefaults(cfg.Plan, today)

	if !cmd.Flags().Changed("name") {
		if err := forms.NewParticipant("New Participant", &f).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Cancelled.")
				return nil
			}
			return err
		}
	}

	p := model.Participant{ID: uuid.NewString()}
	if err := f.Apply(&p); err != nil {
		return err
	}
	p.Rate = rateFor(cfg, today)(p.Level)

	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Insert(p); err != nil {
		return fmt.Errorf("adding participant: %w", err)
	}

	m := viability.Compute(p, today)
	fmt.Printf("\n  Added %s (%s)  %s\n\n", p.Name, p.ID[:8], cli.RenderStatus(m.Status))
	return nil
}
