package model

import (
	"encoding/json"
	"testing"
)

func TestParseSupportLevel(t *testing.T) {
	tests := []struct {
		in   string
		want SupportLevel
	}{
		{"Level 3: Specialist Support Coordination", Level3},
		{"level 3", Level3},
		{"L3", Level3},
		{"3", Level3},
		{"Specialist", Level3},
		{"Level 2", Level2},
		{"2", Level2},
		{"", Level2},
		{"gold tier", Level2},
	}
	for _, tt := range tests {
		if got := ParseSupportLevel(tt.in); got != tt.want {
			t.Errorf("ParseSupportLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSupportLevelShort(t *testing.T) {
	if got := Level3.Short(); got != "Level 3" {
		t.Errorf("Short() = %q", got)
	}
	if got := SupportLevel("Custom").Short(); got != "Custom" {
		t.Errorf("Short() without colon = %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"critical":            StatusCriticalShortfall,
		"CRITICAL SHORTFALL":  StatusCriticalShortfall,
		"critical-shortfall":  StatusCriticalShortfall,
		"Monitoring":          StatusMonitoringRequired,
		"monitoring_required": StatusMonitoringRequired,
		" robust ":            StatusRobustSurplus,
		"sustainable":         StatusSustainable,
	}
	for in, want := range tests {
		got, err := ParseStatus(in)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseStatus("fine"); err == nil {
		t.Error("ParseStatus(fine) should fail")
	}
}

func TestStatusJSONUsesLabel(t *testing.T) {
	b, err := json.Marshal(struct{ S Status }{StatusMonitoringRequired})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"S":"MONITORING REQUIRED"}` {
		t.Errorf("marshal = %s", b)
	}

	var back struct{ S Status }
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.S != StatusMonitoringRequired {
		t.Errorf("unmarshal = %v", back.S)
	}

	if _, err := json.Marshal(Status(9)); err == nil {
		t.Error("invalid status should not marshal")
	}
}

func TestUnbounded(t *testing.T) {
	if !(Metrics{}).Unbounded() {
		t.Error("zero weekly cost should be unbounded")
	}
	if (Metrics{WeeklyCost: 150.21}).Unbounded() {
		t.Error("positive weekly cost reported unbounded")
	}
}
