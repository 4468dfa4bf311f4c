package leads

import (
	"strings"
	"time"
)

// Lead is a persisted contact-form submission. Leads are never modified
// after Save returns.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// CreateLeadRequest is the body accepted by POST /leads.
type CreateLeadRequest struct {
	Name    string `json:"name" validate:"min=2,max=100"`
	Email   string `json:"email" validate:"email,max=255"`
	Message string `json:"message" validate:"min=10,max=1000"`
	// Honeypot is hidden from humans; bots tend to fill it in.
	Honeypot string `json:"honeypot,omitempty"`
}

// IsBot reports whether the honeypot field was filled.
func (r *CreateLeadRequest) IsBot() bool {
	return strings.TrimSpace(r.Honeypot) != ""
}

// NewLead is the store input; the store assigns ID and CreatedAt.
type NewLead struct {
	Name      string
	Email     string
	Message   string
	IP        string
	UserAgent string
}

// ToNewLead converts a validated request into store input.
func (r *CreateLeadRequest) ToNewLead(ip, userAgent string) NewLead {
	return NewLead{
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		IP:        ip,
		UserAgent: userAgent,
	}
}
