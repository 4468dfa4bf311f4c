package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	// Save assigns ID and CreatedAt and durably appends the lead.
	Save(ctx context.Context, in NewLead) (*Lead, error)
	// List returns every stored lead in insertion order.
	List(ctx context.Context) ([]Lead, error)
}

// stamper hands out creation times that never go backwards, even if the
// wall clock does.
type stamper struct {
	now  func() time.Time
	last time.Time
}

func (s *stamper) next() time.Time {
	t := s.now().UTC()
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}

func newLead(in NewLead, createdAt time.Time) Lead {
	return Lead{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: createdAt,
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}
}

// InMemoryRepository keeps leads in process memory. Used by tests and by
// LEAD_STORE=memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads []Lead
	clock stamper
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{clock: stamper{now: time.Now}}
}

// Save appends a lead in memory
func (r *InMemoryRepository) Save(_ context.Context, in NewLead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead := newLead(in, r.clock.next())
	r.leads = append(r.leads, lead)
	return &lead, nil
}

// List returns a copy of the stored leads
func (r *InMemoryRepository) List(_ context.Context) ([]Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, len(r.leads))
	copy(out, r.leads)
	return out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
