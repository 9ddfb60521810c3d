package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xyston/caseload/internal/model"
)

type fakeSource struct {
	mu  sync.Mutex
	ps  []model.Participant
	rev int64
	err error
}

func (f *fakeSource) List() ([]model.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Participant, len(f.ps))
	copy(out, f.ps)
	return out, nil
}

func (f *fakeSource) Revision() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rev, f.err
}

func (f *fakeSource) set(ps []model.Participant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ps = ps
	f.rev++
}

var fixedNow = time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local)

func rosterFixture() []model.Participant {
	return []model.Participant{
		{ID: "p-1", Name: "Alice Nguyen", Level: model.Level2, Rate: 100, Balance: 20000, Hours: 1, PlanEnd: "2025-12-31"},
		{ID: "p-2", Name: "Ben Ortiz", Level: model.Level3, Rate: 190, Balance: 1000, Hours: 3, PlanEnd: "2025-12-31"},
	}
}

func newTestService(t *testing.T, src Source) *Service {
	t.Helper()
	return New(Config{
		DBPath:       "test.db",
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Now:          func() time.Time { return fixedNow },
	}, src)
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{TotalFunds: 1000, MonthlyRevenue: 400, Participants: 2, CriticalRisks: 1}
	curr := Snapshot{TotalFunds: 1250.5, MonthlyRevenue: 380, Participants: 3, CriticalRisks: 0}

	delta := diffSnapshots(prev, curr)
	if math.Abs(delta.TotalFunds-250.5) > 1e-9 {
		t.Fatalf("TotalFunds delta = %.2f, want 250.50", delta.TotalFunds)
	}
	if math.Abs(delta.MonthlyRevenue+20) > 1e-9 {
		t.Fatalf("MonthlyRevenue delta = %.2f, want -20", delta.MonthlyRevenue)
	}
	if delta.Participants != 1 {
		t.Fatalf("Participants delta = %d, want 1", delta.Participants)
	}
	if delta.CriticalRisks != -1 {
		t.Fatalf("CriticalRisks delta = %d, want -1", delta.CriticalRisks)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should produce a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, &fakeSource{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnceEmitsSnapshotThenChanges(t *testing.T) {
	src := &fakeSource{}
	src.set(rosterFixture())
	s := newTestService(t, src)

	s.pollOnce()
	st := s.snapshotStatus()
	if st.EventCount != 1 {
		t.Fatalf("after first poll EventCount = %d, want 1", st.EventCount)
	}
	if st.Summary.Participants != 2 {
		t.Fatalf("Participants = %d, want 2", st.Summary.Participants)
	}
	if st.Summary.CriticalRisks != 1 {
		t.Fatalf("CriticalRisks = %d, want 1", st.Summary.CriticalRisks)
	}

	// Unchanged revision on the same day is a no-op.
	s.pollOnce()
	if got := s.snapshotStatus(); got.EventCount != 1 || got.PollCount != 2 {
		t.Fatalf("unchanged poll: EventCount=%d PollCount=%d, want 1 and 2", got.EventCount, got.PollCount)
	}

	// Top up Ben so he leaves critical shortfall.
	ps := rosterFixture()
	ps[1].Balance = 100000
	src.set(ps)
	s.pollOnce()

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()

	if len(events) != 3 {
		t.Fatalf("events len = %d, want 3", len(events))
	}
	if events[1].Type != EventPortfolioDelta || events[1].Delta == nil {
		t.Fatalf("events[1] = %+v, want portfolio_delta with delta", events[1])
	}
	if events[1].Delta.CriticalRisks != -1 {
		t.Fatalf("CriticalRisks delta = %d, want -1", events[1].Delta.CriticalRisks)
	}
	if events[2].Type != EventStatusChange || len(events[2].Changes) != 1 {
		t.Fatalf("events[2] = %+v, want one status change", events[2])
	}
	ch := events[2].Changes[0]
	if ch.ID != "p-2" || ch.From != model.StatusCriticalShortfall || ch.To != model.StatusRobustSurplus {
		t.Fatalf("status change = %+v", ch)
	}
	if events[0].ID >= events[1].ID || events[1].ID >= events[2].ID {
		t.Fatalf("event ids not increasing: %d %d %d", events[0].ID, events[1].ID, events[2].ID)
	}
}

func TestPollOnceRecordsErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("database is locked")}
	s := newTestService(t, src)

	s.pollOnce()
	st := s.snapshotStatus()
	if !strings.Contains(st.LastError, "database is locked") {
		t.Fatalf("LastError = %q", st.LastError)
	}
	if got := testutil.ToFloat64(s.prom.pollErrors); got != 1 {
		t.Fatalf("poll_errors_total = %v, want 1", got)
	}
}

func TestPromMetricsObserveSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set(rosterFixture())
	s := newTestService(t, src)
	s.pollOnce()

	if got := testutil.ToFloat64(s.prom.totalFunds); got != 21000 {
		t.Fatalf("total funds gauge = %v, want 21000", got)
	}
	if got := testutil.ToFloat64(s.prom.byStatus.WithLabelValues("critical")); got != 1 {
		t.Fatalf("critical gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.prom.events.WithLabelValues(EventSnapshot)); got != 1 {
		t.Fatalf("snapshot events = %v, want 1", got)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	src := &fakeSource{}
	src.set(rosterFixture())
	s := newTestService(t, src)
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		return resp
	}

	resp := get("/healthz")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status = %d", resp.StatusCode)
	}

	resp = get("/v1/status")
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	if st.Summary.Participants != 2 || st.DBPath != "test.db" {
		t.Fatalf("status = %+v", st)
	}

	resp = get("/v1/participants?status=critical")
	var views []participantView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		t.Fatalf("decode participants: %v", err)
	}
	resp.Body.Close()
	if len(views) != 1 || views[0].ID != "p-2" {
		t.Fatalf("critical participants = %+v", views)
	}

	resp = get("/v1/participants?sort=bogus")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad sort status = %d, want 400", resp.StatusCode)
	}

	resp = get("/v1/participants/p-1")
	var one participantView
	if err := json.NewDecoder(resp.Body).Decode(&one); err != nil {
		t.Fatalf("decode participant: %v", err)
	}
	resp.Body.Close()
	if one.Name != "Alice Nguyen" || len(one.Trajectory) == 0 {
		t.Fatalf("participant = %+v", one)
	}

	resp = get("/v1/participants/nobody")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing participant status = %d, want 404", resp.StatusCode)
	}

	resp = get("/v1/events?since=1")
	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	resp.Body.Close()
	if len(events) != 0 {
		t.Fatalf("events since 1 = %d, want 0", len(events))
	}

	resp = get("/metrics")
	body := new(strings.Builder)
	_, _ = bufio.NewReader(resp.Body).WriteTo(body)
	resp.Body.Close()
	if !strings.Contains(body.String(), "caseload_participants 2") {
		t.Fatalf("/metrics missing participants gauge:\n%s", body.String())
	}
}

func TestStreamSendsInitialSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set(rosterFixture())
	s := newTestService(t, src)
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if strings.TrimSpace(line) != "event: snapshot" {
		t.Fatalf("first line = %q, want event: snapshot", line)
	}
}
