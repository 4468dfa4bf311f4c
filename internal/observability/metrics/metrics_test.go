package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission(OutcomeAccepted)
	m.ObserveSubmission(OutcomeAccepted)
	m.ObserveSubmission(OutcomeHoneypot)
	m.ObserveNotification("webhook", nil)
	m.ObserveNotification("webhook", errors.New("boom"))
	m.ObserveStore("save", time.Now())

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeAccepted)); got != 2 {
		t.Fatalf("expected 2 accepted submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeHoneypot)); got != 1 {
		t.Fatalf("expected 1 honeypot submission, got %v", got)
	}
	if got := testutil.ToFloat64(m.notificationsTotal.WithLabelValues("webhook", "failed")); got != 1 {
		t.Fatalf("expected 1 failed notification, got %v", got)
	}
	if got := testutil.CollectAndCount(m.storeLatency); got != 1 {
		t.Fatalf("expected one store latency series, got %d", got)
	}
}

func TestLeadMetricsNilSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission(OutcomeError)
	m.ObserveNotification("email", nil)
	m.ObserveStore("list", time.Now())
}
