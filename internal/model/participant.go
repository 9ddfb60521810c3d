// Package model defines domain types for caseload participants and their viability metrics.
package model

import (
	"strings"
	"time"
)

// SupportLevel is the funded tier of support coordination.
type SupportLevel string

const (
	Level2 SupportLevel = "Level 2: Coordination of Supports"
	Level3 SupportLevel = "Level 3: Specialist Support Coordination"
)

// Levels lists every tier in ascending order.
var Levels = []SupportLevel{Level2, Level3}

// Short returns a compact label for tables ("Level 2").
func (l SupportLevel) Short() string {
	if i := strings.Index(string(l), ":"); i > 0 {
		return string(l)[:i]
	}
	return string(l)
}

// ParseSupportLevel maps free text to a tier. Unknown input falls back to
// Level 2, the lowest tier.
func ParseSupportLevel(s string) SupportLevel {
	t := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if t == strings.ToLower(string(l)) {
			return l
		}
	}
	t = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(t)
	switch {
	case t == "3" || t == "l3" || t == "level3" || strings.HasPrefix(t, "level3:"):
		return Level3
	case strings.Contains(t, "specialist"):
		return Level3
	}
	return Level2
}

// Participant is one funded client on the caseload.
type Participant struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	NDISNumber string       `json:"ndis_number" yaml:"ndis_number"`
	Level      SupportLevel `json:"level" yaml:"level"`
	Rate       float64      `json:"rate" yaml:"rate"`
	Budget     float64      `json:"budget" yaml:"budget"`
	Balance    float64      `json:"balance" yaml:"balance"`
	PlanEnd    string       `json:"plan_end" yaml:"plan_end"` // YYYY-MM-DD, kept raw so bad input reaches the calculator
	Hours      float64      `json:"hours" yaml:"hours"`
	Notes      string       `json:"notes" yaml:"notes"`

	CreatedAt time.Time `json:"-" yaml:"-"`
	UpdatedAt time.Time `json:"-" yaml:"-"`
}

// BalanceEntry is one recorded balance for a participant.
type BalanceEntry struct {
	ParticipantID string
	Balance       float64
	RecordedAt    time.Time
}
