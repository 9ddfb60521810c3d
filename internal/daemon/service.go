// Package daemon provides the long-running caseload monitor and its
// read-only HTTP API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xyston/caseload/internal/logger"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/viability"
)

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventPortfolioDelta = "portfolio_delta"
	EventStatusChange   = "status_change"
)

// Source is the roster the daemon watches.
type Source interface {
	List() ([]model.Participant, error)
	Revision() (int64, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Now          func() time.Time
	Log          *logger.Logger
}

// Snapshot is the compact portfolio state used in status and event payloads.
type Snapshot struct {
	At             time.Time      `json:"at"`
	Today          string         `json:"today"`
	Revision       int64          `json:"revision"`
	TotalFunds     float64        `json:"total_funds"`
	MonthlyRevenue float64        `json:"monthly_revenue"`
	Participants   int            `json:"participants"`
	CriticalRisks  int            `json:"critical_risks"`
	ByStatus       map[string]int `json:"by_status"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	TotalFunds     float64 `json:"total_funds"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	Participants   int     `json:"participants"`
	CriticalRisks  int     `json:"critical_risks"`
}

const moneyEpsilon = 0.005

func (d Delta) isZero() bool {
	return math.Abs(d.TotalFunds) < moneyEpsilon &&
		math.Abs(d.MonthlyRevenue) < moneyEpsilon &&
		d.Participants == 0 &&
		d.CriticalRisks == 0
}

// StatusChange records a participant moving between statuses.
type StatusChange struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	From model.Status `json:"from"`
	To   model.Status `json:"to"`
}

// Event is emitted whenever the portfolio changes.
type Event struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Snapshot  Snapshot       `json:"snapshot"`
	Delta     *Delta         `json:"delta,omitempty"`
	Changes   []StatusChange `json:"changes,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg  Config
	src  Source
	prom *promMetrics
	log  *logger.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	metrics     []model.Metrics
	today       time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service watching src.
func New(cfg Config, src Source) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		prom:      newPromMetrics(),
		log:       cfg.Log.With("component", "daemon"),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves the HTTP API and polls the roster until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case <-ticker.C:
				s.pollOnce()
			}
		}
	})
	return g.Wait()
}

// pollOnce recomputes when the roster revision or the calendar day changed.
func (s *Service) pollOnce() {
	now := s.cfg.Now()
	today := viability.Today(now)
	s.prom.polls.Inc()
	s.prom.lastPollUnix.Set(float64(now.Unix()))

	rev, err := s.src.Revision()
	if err == nil {
		s.mu.RLock()
		unchanged := s.hasSnapshot && rev == s.snapshot.Revision && s.snapshot.Today == today.Format("2006-01-02")
		s.mu.RUnlock()
		if unchanged {
			s.mu.Lock()
			s.lastPollAt = now
			s.pollCount++
			s.lastError = ""
			s.mu.Unlock()
			return
		}
	}

	var res *pipeline.LoadResult
	if err == nil {
		res, err = pipeline.Load(s.src, today)
	}
	if err != nil {
		s.prom.pollErrors.Inc()
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", "err", err)
		return
	}

	snap := snapshotFromResult(res, rev, now)
	s.prom.observe(snap)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevMetrics := s.metrics
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.metrics = res.Metrics
	s.today = res.Today
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		pending = append(pending, s.newEventLocked(EventSnapshot, now, snap))
	} else {
		if delta := diffSnapshots(prev, snap); !delta.isZero() {
			ev := s.newEventLocked(EventPortfolioDelta, now, snap)
			ev.Delta = &delta
			pending = append(pending, ev)
		}
		if changes := diffStatuses(prevMetrics, res.Metrics); len(changes) > 0 {
			ev := s.newEventLocked(EventStatusChange, now, snap)
			ev.Changes = changes
			pending = append(pending, ev)
		}
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.publishEvent(ev)
	}
}

func (s *Service) newEventLocked(typ string, at time.Time, snap Snapshot) Event {
	s.nextEventID++
	return Event{ID: s.nextEventID, Type: typ, Timestamp: at, Snapshot: snap}
}

func snapshotFromResult(res *pipeline.LoadResult, rev int64, at time.Time) Snapshot {
	byStatus := make(map[string]int, len(model.Statuses))
	for st, n := range pipeline.CountByStatus(res.Metrics) {
		byStatus[st.Short()] = n
	}
	return Snapshot{
		At:             at,
		Today:          res.Today.Format("2006-01-02"),
		Revision:       rev,
		TotalFunds:     res.Stats.TotalFunds,
		MonthlyRevenue: res.Stats.MonthlyRevenue,
		Participants:   res.Stats.ActiveParticipants,
		CriticalRisks:  res.Stats.CriticalRisks,
		ByStatus:       byStatus,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TotalFunds:     curr.TotalFunds - prev.TotalFunds,
		MonthlyRevenue: curr.MonthlyRevenue - prev.MonthlyRevenue,
		Participants:   curr.Participants - prev.Participants,
		CriticalRisks:  curr.CriticalRisks - prev.CriticalRisks,
	}
}

// diffStatuses lists participants present in both polls whose status moved.
func diffStatuses(prev, curr []model.Metrics) []StatusChange {
	before := make(map[string]model.Status, len(prev))
	for _, m := range prev {
		before[m.ID] = m.Status
	}
	var out []StatusChange
	for _, m := range curr {
		if was, ok := before[m.ID]; ok && was != m.Status {
			out = append(out, StatusChange{ID: m.ID, Name: m.Name, From: was, To: m.Status})
		}
	}
	return out
}

func (s *Service) publishEvent(ev Event) {
	s.prom.events.WithLabelValues(ev.Type).Inc()

	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) currentMetrics() []model.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) currentToday() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.today.IsZero() {
		return viability.Today(s.cfg.Now())
	}
	return s.today
}
