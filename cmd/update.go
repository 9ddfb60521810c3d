package cmd

import (
	"errors"
	"fmt"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/tui/forms"
	"github.com/xyston/caseload/internal/viability"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <participant>",
	Short: "Edit a participant (interactive form unless field flags are given)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var updateFields forms.Participant

var updateFlagNames = []string{"name", "ndis", "level", "budget", "balance", "plan-end", "hours", "notes"}

func init() {
	updateCmd.Flags().StringVar(&updateFields.Name, "name", "", "Participant name")
	updateCmd.Flags().StringVar(&updateFields.NDIS, "ndis", "", "NDIS number")
	updateCmd.Flags().StringVar(&updateFields.Level, "level", "", "Support level (2 or 3); re-derives the hourly rate")
	updateCmd.Flags().StringVar(&updateFields.Budget, "budget", "", "Total budget")
	updateCmd.Flags().StringVar(&updateFields.Balance, "balance", "", "Current balance")
	updateCmd.Flags().StringVar(&updateFields.PlanEnd, "plan-end", "", "Plan end date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateFields.Hours, "hours", "", "Hours per week")
	updateCmd.Flags().StringVar(&updateFields.Notes, "notes", "", "Strategy notes")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	today, err := referenceDate()
	if err != nil {
		return err
	}

	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := r.Resolve(args[0])
	if err != nil {
		return err
	}
	before := viability.Compute(p, today)

	f := forms.FromParticipant(p)

	anyFlag := false
	for _, name := range updateFlagNames {
		if cmd.Flags().Changed(name) {
			anyFlag = true
		}
	}

	if anyFlag {
		set := func(name string, dst *string, v string) {
			if cmd.Flags().Changed(name) {
				*dst = v
			}
		}
		set("name", &f.Name, updateFields.Name)
		set("ndis", &f.NDIS, updateFields.NDIS)
		set("level", &f.Level, updateFields.Level)
		set("budget", &f.Budget, updateFields.Budget)
		set("balance", &f.Balance, updateFields.Balance)
		set("plan-end", &f.PlanEnd, updateFields.PlanEnd)
		set("hours", &f.Hours, updateFields.Hours)
		set("notes", &f.Notes, updateFields.Notes)
	} else {
		if err := forms.NewParticipant("Edit "+p.Name, &f).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Cancelled.")
				return nil
			}
			return err
		}
	}

	prevLevel := p.Level
	if err := f.Apply(&p); err != nil {
		return err
	}
	if p.Level != prevLevel || p.Rate <= 0 {
		p.Rate = rateFor(cfg, today)(p.Level)
	}

	if err := r.Update(p); err != nil {
		return fmt.Errorf("updating participant: %w", err)
	}

	after := viability.Compute(p, today)
	fmt.Printf("\n  Updated %s  %s", p.Name, cli.RenderStatus(after.Status))
	if after.Status != before.Status {
		fmt.Printf("  %s", cli.Muted("(was "+before.Status.String()+")"))
	}
	fmt.Printf("\n  Runway %s, outcome %s\n\n", cli.FormatRunway(after), cli.RenderSigned(after.Surplus))
	return nil
}
