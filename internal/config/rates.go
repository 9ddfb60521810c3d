package config

import (
	"time"

	"github.com/xyston/caseload/internal/model"
)

type rateVersion struct {
	EffectiveFrom time.Time
	Rate          float64
}

// DefaultRates maps each tier to its published hourly rate.
var DefaultRates = map[model.SupportLevel]float64{
	model.Level2: 100.14,
	model.Level3: 190.41,
}

// defaultRateHistory stores effective-dated rates for each tier.
// Entries must be sorted by EffectiveFrom ascending.
var defaultRateHistory = map[model.SupportLevel][]rateVersion{
	model.Level2: {{EffectiveFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Rate: 100.14}},
	model.Level3: {{EffectiveFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Rate: 190.41}},
}

// LookupRate returns the current rate for a tier.
func LookupRate(level model.SupportLevel) (float64, bool) {
	return LookupRateAt(level, time.Time{})
}

// LookupRateAt returns the rate for a tier in force at the given date.
// If at is zero, the latest entry is used. Dates before the first entry get
// the first entry's rate.
func LookupRateAt(level model.SupportLevel, at time.Time) (float64, bool) {
	versions, ok := defaultRateHistory[level]
	if !ok || len(versions) == 0 {
		r, fallback := DefaultRates[level]
		return r, fallback
	}

	if at.IsZero() {
		return versions[len(versions)-1].Rate, true
	}

	at = at.UTC()
	selected := versions[0].Rate
	for _, v := range versions {
		if !at.Before(v.EffectiveFrom) {
			selected = v.Rate
			continue
		}
		break
	}
	return selected, true
}

// ResolveRate returns the override for a tier if configured, otherwise the
// published rate at the given date. Unknown tiers price as Level 2.
func ResolveRate(cfg Config, level model.SupportLevel, at time.Time) float64 {
	switch level {
	case model.Level2:
		if cfg.Rates.Level2 != nil {
			return *cfg.Rates.Level2
		}
	case model.Level3:
		if cfg.Rates.Level3 != nil {
			return *cfg.Rates.Level3
		}
	}
	if r, ok := LookupRateAt(level, at); ok {
		return r
	}
	r, _ := LookupRateAt(model.Level2, at)
	return r
}
