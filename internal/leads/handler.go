package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/landing-leads/internal/observability/metrics"
	"github.com/wolfman30/landing-leads/internal/ratelimit"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

const (
	MsgAccepted      = "Mensaje enviado correctamente"
	MsgThanks        = "Gracias por tu mensaje"
	MsgRateLimited   = "Demasiadas solicitudes. Intenta de nuevo más tarde."
	MsgInternalError = "Error interno del servidor"
	MsgHealth        = "Use POST to submit leads."

	maxBodyBytes         = 64 << 10
	defaultNotifyTimeout = 5 * time.Second
)

var tracer = otel.Tracer("github.com/wolfman30/landing-leads/internal/leads")

// Notifier is told about every lead that was stored.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead Lead) error
}

// HandlerConfig wires the intake and admin handlers.
type HandlerConfig struct {
	Repo          Repository
	Limiter       ratelimit.Limiter
	Notifier      Notifier
	Metrics       *metrics.LeadMetrics
	Logger        *logging.Logger
	NotifyTimeout time.Duration
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo          Repository
	limiter       ratelimit.Limiter
	notifier      Notifier
	metrics       *metrics.LeadMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
	now           func() time.Time
}

// NewHandler creates a new leads handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Repo == nil {
		panic("leads: repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewMemory(ratelimit.Config{})
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &Handler{
		repo:          cfg.Repo,
		limiter:       cfg.Limiter,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		notifyTimeout: cfg.NotifyTimeout,
		now:           time.Now,
	}
}

// Response is the envelope every /leads reply uses.
type Response struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	RetryAfter string   `json:"retryAfter,omitempty"`
}

// HealthCheck handles GET /leads.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": MsgHealth})
}

// CreateLead handles POST /leads: rate limit, validate, drop honeypot
// submissions, persist, notify.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "leads.intake")
	defer span.End()

	ip := ClientIP(r)
	span.SetAttributes(attribute.String("client.ip", ip))

	limit, err := h.limiter.Check(ctx, ip)
	switch {
	case err != nil:
		// Fail open: a limiter outage must not block real visitors.
		h.logger.Warn("rate limiter unavailable, allowing request", "error", err, "client_ip", ip)
		span.AddEvent("ratelimit.unavailable")
	case !limit.Allowed:
		setRateLimitHeaders(w, limit)
		w.Header().Set("Retry-After", strconv.Itoa(int(limit.RetryAfter(h.now()).Seconds())))
		h.logger.Info("lead rejected: rate limited", "client_ip", ip, "reset", limit.Reset)
		h.finish(span, metrics.OutcomeRateLimited)
		writeJSON(w, http.StatusTooManyRequests, Response{
			Success:    false,
			Message:    MsgRateLimited,
			RetryAfter: limit.Reset.UTC().Format(isoMillis),
		})
		return
	default:
		setRateLimitHeaders(w, limit)
	}

	var req CreateLeadRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Info("lead rejected: undecodable body", "error", err, "client_ip", ip)
		h.finish(span, metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: MsgInvalidData,
			Errors:  []string{MsgInvalidData},
		})
		return
	}

	if violations := Validate(req); len(violations) > 0 {
		h.logger.Info("lead rejected: validation", "client_ip", ip, "violations", violations)
		h.finish(span, metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: violations[0],
			Errors:  violations,
		})
		return
	}

	if req.IsBot() {
		h.logger.Info("honeypot triggered, discarding lead", "client_ip", ip)
		h.finish(span, metrics.OutcomeHoneypot)
		writeJSON(w, http.StatusOK, Response{Success: true, Message: MsgThanks})
		return
	}

	storedIP := ip
	if storedIP == UnknownClient {
		storedIP = ""
	}
	start := time.Now()
	lead, err := h.repo.Save(ctx, req.ToNewLead(storedIP, r.UserAgent()))
	h.metrics.ObserveStore("save", start)
	if err != nil {
		h.logger.Error("failed to save lead", "error", err, "client_ip", ip)
		span.RecordError(err)
		h.finish(span, metrics.OutcomeError)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: MsgInternalError})
		return
	}
	span.SetAttributes(attribute.String("lead.id", lead.ID))
	h.logger.Info("lead created", "lead_id", lead.ID, "client_ip", ip)

	h.notify(ctx, *lead)

	h.finish(span, metrics.OutcomeAccepted)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: MsgAccepted})
}

// notify runs the notifier to completion but never fails the request; the
// lead is already stored by the time it is called.
func (h *Handler) notify(ctx context.Context, lead Lead) {
	if h.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.notifyTimeout)
	defer cancel()

	if err := h.notifier.NotifyNewLead(nctx, lead); err != nil {
		h.logger.Warn("lead notification failed", "error", err, "lead_id", lead.ID)
	}
}

func (h *Handler) finish(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String("lead.outcome", outcome))
	if outcome == metrics.OutcomeError {
		span.SetStatus(codes.Error, outcome)
	}
	h.metrics.ObserveSubmission(outcome)
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []Lead `json:"leads"`
}

// ListLeads handles GET /admin/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, ok := h.listAll(w, r)
	if !ok {
		return
	}
	if leads == nil {
		leads = []Lead{}
	}
	writeJSON(w, http.StatusOK, ListLeadsResponse{Leads: leads})
}

// ExportLeads handles GET /admin/export.
func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, ok := h.listAll(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ExportCSV(leads)))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) ([]Lead, bool) {
	start := time.Now()
	leads, err := h.repo.List(r.Context())
	h.metrics.ObserveStore("list", start)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: MsgInternalError})
		return nil, false
	}
	return leads, true
}

func setRateLimitHeaders(w http.ResponseWriter, res ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", res.Reset.UTC().Format(isoMillis))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
