package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"
)

func TestWithDefaultsFillsBlanks(t *testing.T) {
	today := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	f := Participant{Name: "Ann", Budget: "5000"}.WithDefaults(config.DefaultPlan(), today)

	assert.Equal(t, "5000", f.Budget, "typed value kept")
	assert.Equal(t, "15000", f.Balance)
	assert.Equal(t, "1.5", f.Hours)
	assert.Equal(t, string(model.Level2), f.Level)
	assert.Equal(t, "2026-10-17", f.PlanEnd) // 280 days on
}

func TestWithDefaultsZeroPlanDays(t *testing.T) {
	today := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	plan := config.DefaultPlan()
	plan.PlanDays = 0
	plan.Level = "3"

	f := Participant{}.WithDefaults(plan, today)
	assert.Equal(t, "2026-10-17", f.PlanEnd)
	assert.Equal(t, string(model.Level3), f.Level)
}

func TestApplyParsesSpreadsheetNumbers(t *testing.T) {
	f := Participant{
		Name:    "  Bea  ",
		NDIS:    " 430000001 ",
		Level:   "Level 3",
		Budget:  "$18,000.50",
		Balance: "12,000",
		PlanEnd: "2026-06-30",
		Hours:   "2",
		Notes:   " call OT ",
	}
	var p model.Participant
	require.NoError(t, f.Apply(&p))

	assert.Equal(t, "Bea", p.Name)
	assert.Equal(t, "430000001", p.NDISNumber)
	assert.Equal(t, model.Level3, p.Level)
	assert.InDelta(t, 18000.50, p.Budget, 1e-9)
	assert.InDelta(t, 12000, p.Balance, 1e-9)
	assert.InDelta(t, 2, p.Hours, 1e-9)
	assert.Equal(t, "2026-06-30", p.PlanEnd)
	assert.Equal(t, "call OT", p.Notes)
}

func TestApplyRejectsBadInput(t *testing.T) {
	base := Participant{Name: "Cy", Budget: "1", Balance: "1", PlanEnd: "2026-06-30", Hours: "1"}

	tests := []struct {
		name   string
		mutate func(*Participant)
	}{
		{"blank name", func(f *Participant) { f.Name = " " }},
		{"bad date", func(f *Participant) { f.PlanEnd = "30/06/2026" }},
		{"negative balance", func(f *Participant) { f.Balance = "-5" }},
		{"text budget", func(f *Participant) { f.Budget = "lots" }},
		{"empty hours", func(f *Participant) { f.Hours = "" }},
		{"NaN balance", func(f *Participant) { f.Balance = "NaN" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			p := model.Participant{Name: "unchanged"}
			assert.Error(t, f.Apply(&p))
			assert.Equal(t, "unchanged", p.Name, "participant must not be touched on error")
		})
	}
}

func TestFromParticipantRoundTrip(t *testing.T) {
	p := model.Participant{
		Name: "Dee", Budget: 9000, Balance: 4500.25, PlanEnd: "2026-12-01", Hours: 1.5,
	}
	f := FromParticipant(p)
	assert.Equal(t, string(model.Level2), f.Level, "blank level defaults to Level 2")
	assert.Equal(t, "4500.25", f.Balance)

	var back model.Participant
	require.NoError(t, f.Apply(&back))
	assert.Equal(t, p.Balance, back.Balance)
	assert.Equal(t, model.Level2, back.Level)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateAmount("$1,200.00"))
	assert.NoError(t, ValidateAmount("0"))
	assert.Error(t, ValidateAmount(""))
	assert.Error(t, ValidateAmount("-1"))
	for _, s := range []string{"NaN", "inf", "+Infinity"} {
		assert.Error(t, ValidateAmount(s), "ValidateAmount(%q)", s)
	}

	assert.NoError(t, ValidatePlanEnd("2026-02-28"))
	assert.Error(t, ValidatePlanEnd("2026-02-30"))

	assert.Error(t, ValidateRequired("   "))
	assert.NoError(t, ValidateRequired("x"))
}

func TestSetupApply(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.APIKey = "existing"

	s := SetupFrom(cfg)
	assert.Empty(t, s.APIKey, "key is never pre-filled")
	assert.Equal(t, string(model.Level2), s.Level)

	s.Theme = "no-such-theme"
	s.Hours = "2.5"
	s.AutoRefresh = false
	s.Apply(&cfg)

	assert.Equal(t, "existing", cfg.AI.APIKey, "blank answer keeps the key")
	assert.Equal(t, "flexoki-dark", cfg.Appearance.Theme)
	assert.InDelta(t, 2.5, cfg.Plan.Hours, 1e-9)
	assert.False(t, cfg.TUI.AutoRefresh)

	s.APIKey = " new-key "
	s.Theme = "tokyo-night"
	s.Hours = "abc"
	s.Apply(&cfg)
	assert.Equal(t, "new-key", cfg.AI.APIKey)
	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.InDelta(t, 2.5, cfg.Plan.Hours, 1e-9, "bad hours ignored")

	s.Hours = "Inf"
	s.Apply(&cfg)
	assert.InDelta(t, 2.5, cfg.Plan.Hours, 1e-9, "infinite hours ignored")
}
