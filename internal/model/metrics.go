package model

import (
	"fmt"
	"strings"
	"time"
)

// RunwaySentinel stands in for an unbounded runway when weekly cost is zero.
const RunwaySentinel = 999.0

// WeeksPerMonth converts weekly burn into projected monthly revenue.
const WeeksPerMonth = 4.33

// Status is the viability classification of a participant.
type Status int

const (
	StatusRobustSurplus Status = iota
	StatusSustainable
	StatusMonitoringRequired
	StatusCriticalShortfall
)

// Statuses lists all statuses from safest to most at risk.
var Statuses = []Status{StatusRobustSurplus, StatusSustainable, StatusMonitoringRequired, StatusCriticalShortfall}

var statusDisplay = [...]struct {
	label string
	color string
	short string
}{
	StatusRobustSurplus:      {"ROBUST SURPLUS", "#10b981", "robust"},
	StatusSustainable:        {"SUSTAINABLE", "#22c55e", "sustainable"},
	StatusMonitoringRequired: {"MONITORING REQUIRED", "#eab308", "monitoring"},
	StatusCriticalShortfall:  {"CRITICAL SHORTFALL", "#ef4444", "critical"},
}

func (s Status) valid() bool { return s >= 0 && int(s) < len(statusDisplay) }

// String returns the display label, e.g. "CRITICAL SHORTFALL".
func (s Status) String() string {
	if !s.valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusDisplay[s].label
}

// Color returns the hex colour for the status.
func (s Status) Color() string {
	if !s.valid() {
		return "#888888"
	}
	return statusDisplay[s].color
}

// Short returns the lowercase keyword used by filters.
func (s Status) Short() string {
	if !s.valid() {
		return ""
	}
	return statusDisplay[s].short
}

// MarshalText encodes the status as its label.
func (s Status) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseStatus does.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus accepts a label ("MONITORING REQUIRED") or keyword ("monitoring").
func ParseStatus(text string) (Status, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, "-", " ")
	t = strings.ReplaceAll(t, "_", " ")
	for _, st := range Statuses {
		d := statusDisplay[st]
		if t == strings.ToLower(d.label) || t == d.short {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q (want robust, sustainable, monitoring or critical)", text)
}

// Metrics is the derived viability view of a participant. Never stored.
type Metrics struct {
	Participant

	PlanEndDate    time.Time // resolved plan end (fallback applied)
	WeeksRemaining float64
	WeeklyCost     float64
	RunwayWeeks    float64
	Surplus        float64
	DepletionDate  time.Time
	Status         Status
}

// Unbounded reports whether the runway is the sentinel (no weekly cost).
func (m Metrics) Unbounded() bool {
	return m.WeeklyCost <= 0
}

// PortfolioStats holds the caseload-level aggregate.
type PortfolioStats struct {
	TotalFunds         float64
	MonthlyRevenue     float64
	ActiveParticipants int
	CriticalRisks      int
}

// TrajectoryPoint is one week of projected balance.
type TrajectoryPoint struct {
	Week   int
	Date   time.Time
	Actual float64
	Ideal  float64
}

// LevelStats holds the per-tier revenue breakdown.
type LevelStats struct {
	Level          SupportLevel
	Participants   int
	Hours          float64
	WeeklyBurn     float64
	MonthlyRevenue float64
	Funds          float64
	SharePercent   float64
}

// ForecastPoint is one week of the portfolio projection.
type ForecastPoint struct {
	Week       int
	Date       time.Time
	Balance    float64
	WeeklyBurn float64
	Depleted   int // participants with zero projected balance
}
