package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := components.TabVisualWidth(components.Tabs[i], i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d: x past last tab -> %d, want -1", active, got)
		}
	}
}

func testApp(ms ...model.Metrics) App {
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	a := App{
		loaded:    true,
		width:     140,
		height:    40,
		activeTab: tabParticipants,
		fixedDate: today,
		forecastW: forecastWeeks,
		result: &pipeline.LoadResult{
			Metrics: ms,
			Today:   today,
		},
	}
	a.recompute()
	return a
}

func metric(id, name string, status model.Status, runway float64) model.Metrics {
	return model.Metrics{
		Participant: model.Participant{ID: id, Name: name, Level: model.Level2},
		RunwayWeeks: runway,
		Status:      status,
	}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := a.Update(msg)
		a = next.(App)
	}
	return a
}

func caseload() []model.Metrics {
	return []model.Metrics{
		metric("1", "Carla", model.StatusCriticalShortfall, 2),
		metric("2", "alice", model.StatusSustainable, 30),
		metric("3", "Bruno", model.StatusRobustSurplus, 60),
	}
}

func TestVisibleParticipantsSortedByName(t *testing.T) {
	a := testApp(caseload()...)

	got := a.visibleParticipants()
	want := []string{"alice", "Bruno", "Carla"}
	if len(got) != len(want) {
		t.Fatalf("got %d participants, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Name != want[i] {
			t.Errorf("row %d = %s, want %s", i, m.Name, want[i])
		}
	}
}

func TestParticipantCursorClamps(t *testing.T) {
	a := testApp(caseload()...)

	a = press(t, a, "j", "j", "j", "j")
	if a.parts.cursor != 2 {
		t.Errorf("cursor after 4x j = %d, want 2", a.parts.cursor)
	}
	a = press(t, a, "g")
	if a.parts.cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", a.parts.cursor)
	}
	a = press(t, a, "G")
	if m, ok := a.selectedParticipant(); !ok || m.Name != "Carla" {
		t.Errorf("selected after G = %q, want Carla", m.Name)
	}
}

func TestStatusFilterCyclesAndClears(t *testing.T) {
	a := testApp(caseload()...)

	a = press(t, a, "f") // robust only
	vis := a.visibleParticipants()
	if len(vis) != 1 || vis[0].Name != "Bruno" {
		t.Fatalf("robust filter = %v, want [Bruno]", vis)
	}

	a = press(t, a, "esc")
	if got := len(a.visibleParticipants()); got != 3 {
		t.Errorf("after esc got %d participants, want 3", got)
	}
}

func TestSortCycleResetsCursor(t *testing.T) {
	a := testApp(caseload()...)
	a = press(t, a, "j", "s")

	if a.parts.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after changing sort", a.parts.cursor)
	}
	if a.parts.sortKey() != pipeline.SortKeys[1] {
		t.Errorf("sort key = %s, want %s", a.parts.sortKey(), pipeline.SortKeys[1])
	}
}

func TestSearchQueryFilters(t *testing.T) {
	a := testApp(caseload()...)
	a.parts.query = "BRU"

	vis := a.visibleParticipants()
	if len(vis) != 1 || vis[0].Name != "Bruno" {
		t.Fatalf("search BRU = %v, want [Bruno]", vis)
	}

	a = press(t, a, "esc")
	if a.parts.query != "" {
		t.Errorf("esc kept query %q", a.parts.query)
	}
}

func TestDetailViewAndBack(t *testing.T) {
	a := testApp(caseload()...)

	a = press(t, a, "enter")
	if a.parts.viewMode != partViewDetail {
		t.Fatalf("enter did not open the detail view")
	}

	next, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	a = next.(App)
	if cmd != nil {
		t.Error("q in detail view should not quit")
	}
	if a.parts.viewMode != partViewSplit {
		t.Error("q did not return to the split view")
	}
}

func TestDeleteOpensConfirm(t *testing.T) {
	a := testApp(caseload()...)
	a = press(t, a, "D")

	if a.form == nil || a.formKind != formDelete {
		t.Fatal("D did not open the delete confirm")
	}
	if a.formTarget != "2" {
		t.Errorf("confirm target = %q, want 2 (alice)", a.formTarget)
	}

	a = press(t, a, "esc")
	if a.form != nil {
		t.Error("esc did not close the confirm")
	}
}

func TestBalanceEditStartsOnSelection(t *testing.T) {
	a := testApp(caseload()...)
	a = press(t, a, "e")

	if !a.parts.editing || a.parts.editID != "2" {
		t.Fatalf("editing=%v id=%q, want editing alice", a.parts.editing, a.parts.editID)
	}

	a = press(t, a, "esc")
	if a.parts.editing {
		t.Error("esc did not cancel the balance edit")
	}
}

func TestTabKeys(t *testing.T) {
	a := testApp(caseload()...)
	a.activeTab = tabDashboard

	tests := []struct {
		key  string
		want int
	}{
		{"v", tabRevenue},
		{"x", tabSettings},
		{"p", tabParticipants},
		{"d", tabDashboard},
		{"h", tabSettings},
		{"l", tabDashboard},
	}
	for _, tt := range tests {
		a = press(t, a, tt.key)
		if a.activeTab != tt.want {
			t.Errorf("after %q tab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}
}

func TestKeysIgnoredBeforeLoad(t *testing.T) {
	a := App{activeTab: tabDashboard}
	a = press(t, a, "v")
	if a.activeTab != tabDashboard {
		t.Error("tab changed before the roster loaded")
	}
}

func TestRevisionPollOnlyReloadsOnChange(t *testing.T) {
	a := testApp(caseload()...)
	a.revision = 7
	a.polling = true

	next, cmd := a.Update(revisionMsg{rev: 7})
	a = next.(App)
	if cmd != nil || a.refreshing {
		t.Error("unchanged revision triggered a reload")
	}
	if a.polling {
		t.Error("polling flag not cleared")
	}

	next, cmd = a.Update(revisionMsg{rev: 8})
	a = next.(App)
	if cmd == nil || !a.refreshing {
		t.Error("changed revision did not trigger a reload")
	}
}

func TestMutationErrorFlashes(t *testing.T) {
	a := testApp(caseload()...)
	next, cmd := a.Update(mutationMsg{err: errTest("boom")})
	a = next.(App)

	if cmd != nil {
		t.Error("failed mutation should not reload")
	}
	if a.flash != "boom" || !a.flashErr {
		t.Errorf("flash = %q err=%v", a.flash, a.flashErr)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":                        "(not set)",
		"short":                   "****",
		"AIzaSyA-1234567890abcdE": "AIzaSy...bcdE",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	if !sameDay(a, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)) {
		t.Error("same calendar day reported different")
	}
	if sameDay(a, a.Add(2*time.Minute)) {
		t.Error("midnight rollover not detected")
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("Participant", 5); got != "Part…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("Ann", 5); got != "Ann" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("Ann", 0); got != "" {
		t.Errorf("truncStr zero = %q", got)
	}
}
