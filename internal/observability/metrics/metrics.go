package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lead submission outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeHoneypot    = "honeypot"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// LeadMetrics exposes counters/histograms for the lead intake flow.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	storeLatency       *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "New-lead notifications by channel and status",
		}, []string{"channel", "status"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "landing",
			Subsystem: "leads",
			Name:      "store_latency_seconds",
			Help:      "Latency of lead store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.notificationsTotal, m.storeLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveNotification(channel string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(channel, status).Inc()
}

// ObserveStore records how long a store operation took since start.
func (m *LeadMetrics) ObserveStore(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
