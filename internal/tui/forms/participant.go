// Package forms holds the huh forms shared by the CLI and the dashboard.
package forms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/source"
	"github.com/xyston/caseload/internal/viability"
)

// Participant is the editable text form of a participant.
type Participant struct {
	Name    string
	NDIS    string
	Level   string
	Budget  string
	Balance string
	PlanEnd string
	Hours   string
	Notes   string
}

// FromParticipant fills the form from a stored participant.
func FromParticipant(p model.Participant) Participant {
	level := string(p.Level)
	if level == "" {
		level = string(model.Level2)
	}
	return Participant{
		Name:    p.Name,
		NDIS:    p.NDISNumber,
		Level:   level,
		Budget:  formatAmount(p.Budget),
		Balance: formatAmount(p.Balance),
		PlanEnd: p.PlanEnd,
		Hours:   formatAmount(p.Hours),
		Notes:   p.Notes,
	}
}

// WithDefaults fills every empty field from the plan defaults. The plan end
// defaults to PlanDays after today.
func (f Participant) WithDefaults(plan config.PlanConfig, today time.Time) Participant {
	if f.Level == "" {
		f.Level = plan.Level
	}
	f.Level = string(model.ParseSupportLevel(f.Level))
	if f.Budget == "" {
		f.Budget = formatAmount(plan.Budget)
	}
	if f.Balance == "" {
		f.Balance = formatAmount(plan.Balance)
	}
	if f.Hours == "" {
		f.Hours = formatAmount(plan.Hours)
	}
	if f.PlanEnd == "" {
		days := plan.PlanDays
		if days <= 0 {
			days = viability.DefaultPlanDays
		}
		f.PlanEnd = viability.AddDays(today, days).Format(viability.PlanEndLayout)
	}
	return f
}

// Apply copies the fields onto p. Numbers accept "$" and "," as typed in a
// spreadsheet.
func (f Participant) Apply(p *model.Participant) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if err := ValidatePlanEnd(f.PlanEnd); err != nil {
		return fmt.Errorf("plan end %q: want YYYY-MM-DD", f.PlanEnd)
	}
	for _, field := range []struct{ label, value string }{
		{"budget", f.Budget}, {"balance", f.Balance}, {"hours", f.Hours},
	} {
		if err := ValidateAmount(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.label, err)
		}
	}

	p.Name = name
	p.NDISNumber = strings.TrimSpace(f.NDIS)
	p.Level = model.ParseSupportLevel(f.Level)
	p.Budget = source.CleanNumber(f.Budget)
	p.Balance = source.CleanNumber(f.Balance)
	p.PlanEnd = strings.TrimSpace(f.PlanEnd)
	p.Hours = source.CleanNumber(f.Hours)
	p.Notes = strings.TrimSpace(f.Notes)
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidateAmount accepts a non-negative number, tolerating "$" and ",".
func ValidateAmount(s string) error {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return errors.New("required")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("not a number")
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// ValidateRequired rejects blank input.
func ValidateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// ValidatePlanEnd accepts a YYYY-MM-DD date.
func ValidatePlanEnd(s string) error {
	if _, err := time.Parse(viability.PlanEndLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func levelOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(model.Levels))
	for _, l := range model.Levels {
		opts = append(opts, huh.NewOption(string(l), string(l)))
	}
	return opts
}

// NewParticipant builds the add/edit form bound to f.
func NewParticipant(title string, f *Participant) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Name").Value(&f.Name).Validate(ValidateRequired),
			huh.NewInput().Title("NDIS Number").Value(&f.NDIS),
			huh.NewSelect[string]().Title("Support Level").Options(levelOptions()...).Value(&f.Level),
		),
		huh.NewGroup(
			huh.NewInput().Title("Total Budget").Value(&f.Budget).Validate(ValidateAmount),
			huh.NewInput().Title("Current Balance").Value(&f.Balance).Validate(ValidateAmount),
			huh.NewInput().Title("Plan End Date").Placeholder("YYYY-MM-DD").Value(&f.PlanEnd).Validate(ValidatePlanEnd),
			huh.NewInput().Title("Hours Per Week").Value(&f.Hours).Validate(ValidateAmount),
		),
		huh.NewGroup(
			huh.NewText().Title("Strategy Notes").Value(&f.Notes),
		),
	).WithShowHelp(true)
}

// NewConfirm builds a yes/no form bound to ok.
func NewConfirm(title, description string, ok *bool) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(ok),
	))
}

// Confirm asks a yes/no question on the terminal. Aborting counts as no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := NewConfirm(title, description, &ok).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
