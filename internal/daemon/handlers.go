package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/viability"
)

// participantView is the JSON shape of one participant's metrics.
type participantView struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	NDISNumber     string                  `json:"ndis_number,omitempty"`
	Level          string                  `json:"level"`
	Rate           float64                 `json:"rate"`
	Balance        float64                 `json:"balance"`
	Hours          float64                 `json:"hours"`
	PlanEnd        string                  `json:"plan_end"`
	WeeksRemaining float64                 `json:"weeks_remaining"`
	WeeklyCost     float64                 `json:"weekly_cost"`
	RunwayWeeks    float64                 `json:"runway_weeks"`
	Unbounded      bool                    `json:"unbounded,omitempty"`
	Surplus        float64                 `json:"surplus"`
	DepletionDate  string                  `json:"depletion_date"`
	Status         model.Status            `json:"status"`
	Trajectory     []model.TrajectoryPoint `json:"trajectory,omitempty"`
}

func newParticipantView(m model.Metrics) participantView {
	return participantView{
		ID:             m.ID,
		Name:           m.Name,
		NDISNumber:     m.NDISNumber,
		Level:          string(m.Level),
		Rate:           m.Rate,
		Balance:        m.Balance,
		Hours:          m.Hours,
		PlanEnd:        m.PlanEndDate.Format(viability.PlanEndLayout),
		WeeksRemaining: m.WeeksRemaining,
		WeeklyCost:     m.WeeklyCost,
		RunwayWeeks:    m.RunwayWeeks,
		Unbounded:      m.Unbounded(),
		Surplus:        m.Surplus,
		DepletionDate:  m.DepletionDate.Format(viability.PlanEndLayout),
		Status:         m.Status,
	}
}

// Handler builds the HTTP router for the daemon API.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.prom.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/participants", s.handleParticipants)
	v1.GET("/participants/:id", s.handleParticipant)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	return r
}

func (s *Service) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

// handleParticipants supports ?status=, ?q= and ?sort= filters.
func (s *Service) handleParticipants(c *gin.Context) {
	ms := s.currentMetrics()

	if raw := c.Query("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ms = pipeline.FilterByStatus(ms, st)
	}
	ms = pipeline.FilterByName(ms, c.Query("q"))

	key, err := pipeline.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ms = pipeline.SortMetrics(ms, key)

	out := make([]participantView, 0, len(ms))
	for _, m := range ms {
		out = append(out, newParticipantView(m))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Service) handleParticipant(c *gin.Context) {
	id := c.Param("id")
	for _, m := range s.currentMetrics() {
		if m.ID != id {
			continue
		}
		v := newParticipantView(m)
		v.Trajectory = viability.Trajectory(m, s.currentToday())
		c.JSON(http.StatusOK, v)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("participant %q not found", id)})
}

// handleEvents returns the buffered events, optionally only those after ?since=.
func (s *Service) handleEvents(c *gin.Context) {
	var since int64
	if raw := c.Query("since"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an event id"})
			return
		}
		since = n
	}

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > since {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	w.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
