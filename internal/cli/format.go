// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xyston/caseload/internal/model"
)

// RunwayDisplayCap is the runway above which the display shows "999+".
const RunwayDisplayCap = 100.0

// FormatCurrency formats dollars with grouping and cents, e.g. "$15,000.00".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-" + FormatCurrency(-v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatWholeCurrency formats dollars rounded to whole units, e.g. "$15,000".
func FormatWholeCurrency(v float64) string {
	r := math.Round(v)
	if r < 0 {
		return "-$" + humanize.Comma(int64(-r))
	}
	return "$" + humanize.Comma(int64(r))
}

// FormatSignedCurrency prefixes positive amounts with "+".
func FormatSignedCurrency(v float64) string {
	if v > 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatRunway shows runway in weeks, capping very long runways at "999+".
func FormatRunway(m model.Metrics) string {
	if m.Unbounded() || m.RunwayWeeks > RunwayDisplayCap {
		return "999+"
	}
	return fmt.Sprintf("%.1f wks", m.RunwayWeeks)
}

// FormatWeeks formats a week count with one decimal.
func FormatWeeks(w float64) string {
	return fmt.Sprintf("%.1f wks", w)
}

// FormatHours formats weekly hours, dropping a trailing ".0".
func FormatHours(h float64) string {
	s := humanize.Ftoa(h)
	return s + " hrs/wk"
}

// FormatDate formats as dd/MM/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatShortDate formats as dd/MM/yy.
func FormatShortDate(t time.Time) string {
	return t.Format("02/01/06")
}

// FormatLongDate formats as "02 January 2006".
func FormatLongDate(t time.Time) string {
	return t.Format("02 January 2006")
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatRelative describes when something happened relative to now.
func FormatRelative(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

// FormatCount formats an integer with comma grouping.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
