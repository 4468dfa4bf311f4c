package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/landing-leads/internal/leads"
	"github.com/wolfman30/landing-leads/internal/observability/metrics"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// Channel delivers a new-lead notification one way (webhook, email, ...).
type Channel interface {
	Name() string
	Notify(ctx context.Context, lead leads.Lead) error
}

// Service fans a new lead out to every configured channel.
type Service struct {
	channels []Channel
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewService creates a notification service. Nil channels are skipped so
// callers can pass constructors that return nil when unconfigured.
func NewService(m *metrics.LeadMetrics, logger *logging.Logger, channels ...Channel) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{metrics: m, logger: logger}
	for _, ch := range channels {
		if !isNil(ch) {
			s.channels = append(s.channels, ch)
		}
	}
	return s
}

// Enabled reports whether any channel is configured.
func (s *Service) Enabled() bool {
	return s != nil && len(s.channels) > 0
}

// NotifyNewLead tries every channel and joins their errors. A failing
// channel does not stop the others.
func (s *Service) NotifyNewLead(ctx context.Context, lead leads.Lead) error {
	if !s.Enabled() {
		return nil
	}
	var errs []error
	for _, ch := range s.channels {
		err := ch.Notify(ctx, lead)
		s.metrics.ObserveNotification(ch.Name(), err)
		if err != nil {
			s.logger.Error("notify: channel failed", "channel", ch.Name(), "error", err, "lead_id", lead.ID)
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		s.logger.Debug("notify: channel delivered", "channel", ch.Name(), "lead_id", lead.ID)
	}
	return errors.Join(errs...)
}

// EmailChannel mails a summary of each lead to a fixed recipient.
type EmailChannel struct {
	sender EmailSender
	to     string
}

// NewEmailChannel returns nil when sender or recipient is missing.
func NewEmailChannel(sender EmailSender, to string) *EmailChannel {
	if isNil(sender) || strings.TrimSpace(to) == "" {
		return nil
	}
	return &EmailChannel{sender: sender, to: to}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) Notify(ctx context.Context, lead leads.Lead) error {
	return e.sender.Send(ctx, EmailMessage{
		To:      e.to,
		Subject: fmt.Sprintf("Nuevo lead: %s", lead.Name),
		Body:    leadSummary(lead),
	})
}

func leadSummary(lead leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Fecha: %s\n", lead.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	if lead.IP != "" {
		fmt.Fprintf(&b, "IP: %s\n", lead.IP)
	}
	fmt.Fprintf(&b, "\n%s\n", lead.Message)
	return b.String()
}

// isNil catches typed nil pointers hidden in an interface.
func isNil(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case *WebhookNotifier:
		return c == nil
	case *EmailChannel:
		return c == nil
	case *SendGridSender:
		return c == nil
	case *SESSender:
		return c == nil
	case *StubEmailSender:
		return c == nil
	}
	return false
}
