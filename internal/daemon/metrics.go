package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xyston/caseload/internal/model"
)

const namespace = "caseload"

// promMetrics holds the gauges and counters exported at /metrics.
type promMetrics struct {
	registry *prometheus.Registry

	totalFunds     prometheus.Gauge
	monthlyRevenue prometheus.Gauge
	participants   prometheus.Gauge
	byStatus       *prometheus.GaugeVec
	lastPollUnix   prometheus.Gauge

	polls      prometheus.Counter
	pollErrors prometheus.Counter
	events     *prometheus.CounterVec
}

func newPromMetrics() *promMetrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &promMetrics{
		registry: reg,
		totalFunds: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_funds_dollars",
			Help:      "Sum of remaining participant balances",
		}),
		monthlyRevenue: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monthly_revenue_dollars",
			Help:      "Projected monthly revenue from current weekly burn",
		}),
		participants: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants on the roster",
		}),
		byStatus: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants_by_status",
			Help:      "Participants per viability status",
		}, []string{"status"}),
		lastPollUnix: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_poll_timestamp_seconds",
			Help:      "Unix time of the most recent roster poll",
		}),
		polls: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Roster polls performed",
		}),
		pollErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Roster polls that failed",
		}),
		events: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events published by type",
		}, []string{"type"}),
	}
}

func (p *promMetrics) observe(snap Snapshot) {
	p.totalFunds.Set(snap.TotalFunds)
	p.monthlyRevenue.Set(snap.MonthlyRevenue)
	p.participants.Set(float64(snap.Participants))
	for _, st := range model.Statuses {
		p.byStatus.WithLabelValues(st.Short()).Set(float64(snap.ByStatus[st.Short()]))
	}
}
