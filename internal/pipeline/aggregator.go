// Package pipeline loads the roster, imports spreadsheets and aggregates
// portfolio views.
package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/viability"
)

// SortKey orders metrics for listings.
type SortKey string

const (
	SortName    SortKey = "name"
	SortRunway  SortKey = "runway"
	SortSurplus SortKey = "surplus"
	SortPlanEnd SortKey = "plan-end"
	SortStatus  SortKey = "status"
	SortBalance SortKey = "balance"
)

// SortKeys lists every accepted sort key.
var SortKeys = []SortKey{SortName, SortRunway, SortSurplus, SortPlanEnd, SortStatus, SortBalance}

// ParseSortKey validates a sort key.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortName, nil
	}
	for _, v := range SortKeys {
		if v == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// SortMetrics returns a sorted copy. Status and runway put the most at-risk
// participants first; ties fall back to name.
func SortMetrics(ms []model.Metrics, key SortKey) []model.Metrics {
	out := append([]model.Metrics(nil), ms...)
	byName := func(a, b model.Metrics) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	var less func(a, b model.Metrics) bool
	switch key {
	case SortRunway:
		less = func(a, b model.Metrics) bool { return a.RunwayWeeks < b.RunwayWeeks }
	case SortSurplus:
		less = func(a, b model.Metrics) bool { return a.Surplus < b.Surplus }
	case SortPlanEnd:
		less = func(a, b model.Metrics) bool { return a.PlanEndDate.Before(b.PlanEndDate) }
	case SortStatus:
		less = func(a, b model.Metrics) bool { return a.Status > b.Status }
	case SortBalance:
		less = func(a, b model.Metrics) bool { return a.Balance > b.Balance }
	default:
		less = byName
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return byName(out[i], out[j])
	})
	return out
}

// FilterByStatus keeps metrics with one of the given statuses.
// No statuses means no filtering.
func FilterByStatus(ms []model.Metrics, statuses ...model.Status) []model.Metrics {
	if len(statuses) == 0 {
		return ms
	}
	var out []model.Metrics
	for _, m := range ms {
		for _, s := range statuses {
			if m.Status == s {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// FilterByName keeps metrics whose name or NDIS number contains q,
// case-insensitively.
func FilterByName(ms []model.Metrics, q string) []model.Metrics {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return ms
	}
	var out []model.Metrics
	for _, m := range ms {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(m.NDISNumber, q) {
			out = append(out, m)
		}
	}
	return out
}

// CountByStatus returns the participant count for every status.
func CountByStatus(ms []model.Metrics) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		counts[s] = 0
	}
	for _, m := range ms {
		counts[m.Status]++
	}
	return counts
}

// Watchlist returns critical participants, soonest depletion first.
func Watchlist(ms []model.Metrics) []model.Metrics {
	out := FilterByStatus(ms, model.StatusCriticalShortfall)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepletionDate.Before(out[j].DepletionDate)
	})
	return out
}

// AggregateLevels breaks revenue down by support level, in tier order.
// Levels with no participants are included with zero values.
func AggregateLevels(ms []model.Metrics) []model.LevelStats {
	pos := make(map[model.SupportLevel]int, len(model.Levels))
	out := make([]model.LevelStats, 0, len(model.Levels))
	for _, l := range model.Levels {
		pos[l] = len(out)
		out = append(out, model.LevelStats{Level: l})
	}

	total := 0.0
	for _, m := range ms {
		i, ok := pos[m.Level]
		if !ok {
			i = len(out)
			pos[m.Level] = i
			out = append(out, model.LevelStats{Level: m.Level})
		}
		out[i].Participants++
		out[i].Hours += m.Hours
		out[i].WeeklyBurn += m.WeeklyCost
		out[i].Funds += m.Balance
		total += m.WeeklyCost
	}
	for i := range out {
		out[i].MonthlyRevenue = out[i].WeeklyBurn * model.WeeksPerMonth
		if total > 0 {
			out[i].SharePercent = out[i].WeeklyBurn / total
		}
	}
	return out
}

// ProjectPortfolio sums each participant's actual-burn trajectory over the
// next weeks, starting with week 0 (today).
func ProjectPortfolio(ms []model.Metrics, today time.Time, weeks int) []model.ForecastPoint {
	today = viability.Today(today)
	weeks = max(weeks, 0)
	out := make([]model.ForecastPoint, weeks+1)
	for i := range out {
		out[i].Week = i
		out[i].Date = viability.AddDays(today, i*7)
	}
	for _, m := range ms {
		for i := range out {
			bal := math.Max(0, m.Balance-float64(i)*m.WeeklyCost)
			out[i].Balance += bal
			if bal > 0 {
				out[i].WeeklyBurn += math.Min(m.WeeklyCost, bal)
			} else {
				out[i].Depleted++
			}
		}
	}
	return out
}
