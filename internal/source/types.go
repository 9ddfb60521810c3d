// Package source reads and writes participant spreadsheets (CSV).
package source

import (
	"time"

	"github.com/xyston/caseload/internal/model"
)

// DiscoveredFile represents a CSV file found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // base name, used in progress output
	Size int64
}

// ParseResult holds the participants read from one file.
type ParseResult struct {
	File         DiscoveredFile
	Participants []model.Participant
	Rows         int // data rows seen, including skipped blank rows
	Skipped      int // blank rows
	Err          error
}

// RateFunc returns the hourly rate for a support level.
type RateFunc func(model.SupportLevel) float64

// ParseOptions controls row conversion.
type ParseOptions struct {
	Today time.Time     // fallback for empty or invalid plan end dates
	Rate  RateFunc      // defaults to the published tier rates
	NewID func() string // defaults to uuid.NewString
}

// Column headers, in export order.
const (
	ColName    = "Name"
	ColNDIS    = "NDIS Number"
	ColLevel   = "Support Level"
	ColBudget  = "Total Budget"
	ColBalance = "Current Balance"
	ColPlanEnd = "Plan End Date"
	ColHours   = "Hours Per Week"
)

// Headers lists the export columns in order.
var Headers = []string{ColName, ColNDIS, ColLevel, ColBudget, ColBalance, ColPlanEnd, ColHours}

// headerAliases maps normalised header text to a canonical column.
var headerAliases = map[string]string{
	"name":                       ColName,
	"participant":                ColName,
	"ndis number":                ColNDIS,
	"ndis":                       ColNDIS,
	"support level":              ColLevel,
	"level":                      ColLevel,
	"total budget":               ColBudget,
	"budget":                     ColBudget,
	"current balance":            ColBalance,
	"balance":                    ColBalance,
	"plan end date":              ColPlanEnd,
	"plan end date (yyyy-mm-dd)": ColPlanEnd,
	"plan end":                   ColPlanEnd,
	"hours per week":             ColHours,
	"hours":                      ColHours,
}
