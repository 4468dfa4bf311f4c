package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/landing-leads/internal/config"
	"github.com/wolfman30/landing-leads/internal/observability/metrics"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

func TestSetupLeadMetricsExposesMetrics(t *testing.T) {
	handler, m := setupLeadMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveSubmission(metrics.OutcomeAccepted)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "landing_leads_submissions_total") {
		t.Fatalf("expected submissions counter to be exported")
	}
}

func TestBuildHandlerServesLeads(t *testing.T) {
	cfg := &appconfig.Config{
		RateLimitWindow:   time.Minute,
		RateLimitMax:      20,
		AdminRateLimitMax: 30,
		AdminUser:         "admin",
		AdminPassword:     "pw",
		LeadStore:         "file",
		LeadsFile:         filepath.Join(t.TempDir(), "leads.json"),
		EmailProvider:     "none",
		NotifyTimeout:     time.Second,
	}

	handler, cleanup, err := buildHandler(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}
	defer cleanup()

	body := `{"name":"Ana","email":"ana@example.com","message":"Necesito una cotización"}`
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:pw")))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ana@example.com") {
		t.Fatalf("expected stored lead in admin list, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBuildHandlerRejectsUnknownStore(t *testing.T) {
	cfg := &appconfig.Config{LeadStore: "nope"}
	if _, _, err := buildHandler(context.Background(), cfg, logging.New("error")); err == nil {
		t.Fatalf("expected error for unknown lead store")
	}
}
