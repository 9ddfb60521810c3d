package cli

import (
	"testing"
	"time"

	"github.com/xyston/caseload/internal/model"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{15000, "$15,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-250.5, "-$250.50"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedCurrency(t *testing.T) {
	if got := FormatSignedCurrency(7189.08); got != "+$7,189.08" {
		t.Errorf("positive = %q", got)
	}
	if got := FormatSignedCurrency(-10); got != "-$10.00" {
		t.Errorf("negative = %q", got)
	}
	if got := FormatSignedCurrency(0); got != "$0.00" {
		t.Errorf("zero = %q", got)
	}
}

func TestFormatWholeCurrency(t *testing.T) {
	if got := FormatWholeCurrency(15000.6); got != "$15,001" {
		t.Errorf("got %q", got)
	}
	if got := FormatWholeCurrency(-3210.2); got != "-$3,210" {
		t.Errorf("got %q", got)
	}
}

func TestFormatRunway(t *testing.T) {
	tests := []struct {
		m    model.Metrics
		want string
	}{
		{model.Metrics{WeeklyCost: 100, RunwayWeeks: 12.34}, "12.3 wks"},
		{model.Metrics{WeeklyCost: 100, RunwayWeeks: 100}, "100.0 wks"},
		{model.Metrics{WeeklyCost: 100, RunwayWeeks: 100.1}, "999+"},
		{model.Metrics{WeeklyCost: 0, RunwayWeeks: model.RunwaySentinel}, "999+"},
	}
	for _, tt := range tests {
		if got := FormatRunway(tt.m); got != tt.want {
			t.Errorf("FormatRunway(%v) = %q, want %q", tt.m.RunwayWeeks, got, tt.want)
		}
	}
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "07/03/2025" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatShortDate(d); got != "07/03/25" {
		t.Errorf("FormatShortDate = %q", got)
	}
	if got := FormatLongDate(d); got != "07 March 2025" {
		t.Errorf("FormatLongDate = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Jane Citizen", 20); got != "Jane Citizen" {
		t.Errorf("short = %q", got)
	}
	if got := Truncate("Jane Citizen", 6); got != "Jane…" {
		t.Errorf("long = %q", got)
	}
}
