// Package viability derives runway, surplus and status for participants.
//
// Everything here is pure: callers pass the reference date explicitly.
package viability

import (
	"math"
	"time"

	"github.com/xyston/caseload/internal/model"
)

// DefaultPlanDays is the plan length assumed when plan_end cannot be parsed.
const DefaultPlanDays = 280

// PlanEndLayout is the only layout accepted for a stored plan end.
const PlanEndLayout = "2006-01-02"

// Today truncates now to local midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// AddDays moves a date by whole calendar days, keeping it at midnight.
func AddDays(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, ignoring clock time and DST.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// ResolvePlanEnd parses a stored plan end. On failure it returns
// today+DefaultPlanDays and ok=false.
func ResolvePlanEnd(text string, today time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation(PlanEndLayout, text, today.Location())
	if err != nil {
		return AddDays(Today(today), DefaultPlanDays), false
	}
	return t, true
}

// Compute derives the viability metrics of p as of today.
func Compute(p model.Participant, today time.Time) model.Metrics {
	today = Today(today)
	planEnd, _ := ResolvePlanEnd(p.PlanEnd, today)

	weeksRemaining := math.Max(0, float64(DaysBetween(today, planEnd))/7)
	weeklyCost := p.Hours * p.Rate

	runway := model.RunwaySentinel
	if weeklyCost > 0 {
		runway = p.Balance / weeklyCost
	}

	// Past the sentinel horizon the date is meaningless and int days overflow.
	depletionDays := int(math.Min(math.Floor(runway*7), model.RunwaySentinel*7))

	return model.Metrics{
		Participant:    p,
		PlanEndDate:    planEnd,
		WeeksRemaining: weeksRemaining,
		WeeklyCost:     weeklyCost,
		RunwayWeeks:    runway,
		Surplus:        p.Balance - weeklyCost*weeksRemaining,
		DepletionDate:  AddDays(today, depletionDays),
		Status:         Classify(runway, weeksRemaining),
	}
}

// Classify maps runway against weeks remaining. First match wins.
func Classify(runway, weeksRemaining float64) model.Status {
	switch {
	case runway >= weeksRemaining*1.2:
		return model.StatusRobustSurplus
	case runway >= weeksRemaining:
		return model.StatusSustainable
	case runway >= math.Max(0, weeksRemaining-4):
		return model.StatusMonitoringRequired
	default:
		return model.StatusCriticalShortfall
	}
}

// ComputeAll computes metrics for each participant, preserving order.
func ComputeAll(ps []model.Participant, today time.Time) []model.Metrics {
	out := make([]model.Metrics, len(ps))
	for i, p := range ps {
		out[i] = Compute(p, today)
	}
	return out
}

// Stats folds metrics into portfolio totals. Empty input yields zeros.
func Stats(ms []model.Metrics) model.PortfolioStats {
	var s model.PortfolioStats
	for _, m := range ms {
		s.TotalFunds += m.Balance
		s.MonthlyRevenue += m.WeeklyCost * model.WeeksPerMonth
		if m.Status == model.StatusCriticalShortfall {
			s.CriticalRisks++
		}
	}
	s.ActiveParticipants = len(ms)
	return s
}
