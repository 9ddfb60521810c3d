package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}

	// Padding under the short card must still carry background styling.
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes", i)
		}
	}
}

func TestCardRowSkipsEmptyCards(t *testing.T) {
	card := ContentCard("Only", "body", 30)
	if got := CardRow([]string{"", card, ""}); lipgloss.Width(got) != lipgloss.Width(card) {
		t.Errorf("width = %d, want %d", lipgloss.Width(got), lipgloss.Width(card))
	}
	if CardRow(nil) != "" {
		t.Error("empty row should render nothing")
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {120, 2}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Total Funds", Value: "$21,000"},
		{Label: "Monthly Revenue", Value: "$3,289"},
		{Label: "Critical", Value: "1", Color: theme.Active.Red},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: bar width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'d': 0, 'p': 1, 'v': 2, 'x': 3, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		500:     "$500",
		2000:    "$2k",
		2500:    "$2.5k",
		1000000: "$1M",
		1500000: "$1.5M",
	}
	for v, want := range cases {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{10: 2, 100: 20, 1000: 200, 40000: 5000, 0: 1}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Errorf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestTrajectoryChartHeight(t *testing.T) {
	actual := []float64{20000, 18000, 16000, 14000, 12000, 10000}
	ideal := []float64{20000, 16000, 12000, 8000, 4000, 0}
	labels := []string{"W0", "W1", "W2", "W3", "W4", "W5"}

	out := TrajectoryChart(actual, ideal, labels, 60, 8)
	lines := strings.Split(out, "\n")
	// chart rows plus the axis line and the label line
	if len(lines) < 4 {
		t.Fatalf("chart has %d lines", len(lines))
	}
	if !strings.Contains(out, "W0") {
		t.Error("missing first x label")
	}
	if !strings.Contains(out, "└") {
		t.Error("missing x axis")
	}
}

func TestNarrowChartsFallBackToSparkline(t *testing.T) {
	vals := []float64{1, 2, 3}
	if out := BarChart(vals, nil, theme.Active.Accent, 10, 8); strings.Contains(out, "\n") {
		t.Error("narrow bar chart should be a single-line sparkline")
	}
	if out := TrajectoryChart(vals, vals, nil, 60, 2); strings.Contains(out, "\n") {
		t.Error("short trajectory chart should be a single-line sparkline")
	}
}

func TestBudgetUsed(t *testing.T) {
	cases := []struct {
		budget, balance, want float64
	}{
		{20000, 5000, 0.75},
		{20000, 20000, 0},
		{20000, 25000, 0},
		{20000, -100, 1},
		{0, 100, 0},
	}
	for _, tc := range cases {
		m := model.Metrics{Participant: model.Participant{Budget: tc.budget, Balance: tc.balance}}
		if got := BudgetUsed(m); got != tc.want {
			t.Errorf("BudgetUsed(%v/%v) = %v, want %v", tc.balance, tc.budget, got, tc.want)
		}
	}
}

func TestRenderStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(100, StatusInfo{Today: "03/03/2025", DataAge: "2s", AutoRefresh: true})
	if w := lipgloss.Width(bar); w != 100 {
		t.Errorf("width = %d, want 100", w)
	}
}
