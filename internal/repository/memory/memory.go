// Package memory provides storage backends that keep records in process
// memory. They enforce the same unique keys as the database backends and are
// used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devevent/internal/domain"
)

// EventRepo is an in-memory event backend with a unique slug.
type EventRepo struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Event
	bySlug map[string]string
	seq    map[string]uint64
	next   uint64
}

// NewEventRepo returns an empty EventRepo.
func NewEventRepo() *EventRepo {
	return &EventRepo{
		byID:   make(map[string]*domain.Event),
		bySlug: make(map[string]string),
		seq:    make(map[string]uint64),
	}
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.bySlug[e.Slug]; taken {
		return domain.NewConflictError("an event with this slug already exists", nil)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.byID[e.ID] = e.Clone()
	r.bySlug[e.Slug] = e.ID
	r.next++
	r.seq[e.ID] = r.next
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.Clone(), nil
}

func (r *EventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *EventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Event, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e.Clone())
	}
	// Equal timestamps fall back to insertion order, newest first.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if owner, taken := r.bySlug[e.Slug]; taken && owner != e.ID {
		return domain.NewConflictError("an event with this slug already exists", nil)
	}
	delete(r.bySlug, current.Slug)
	r.byID[e.ID] = e.Clone()
	r.bySlug[e.Slug] = e.ID
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.bySlug, e.Slug)
	delete(r.byID, id)
	delete(r.seq, id)
	return nil
}

// BookingRepo is an in-memory booking backend with a unique (eventId, email).
type BookingRepo struct {
	mu       sync.RWMutex
	bookings []*domain.Booking
}

// NewBookingRepo returns an empty BookingRepo.
func NewBookingRepo() *BookingRepo {
	return &BookingRepo{}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.EventID == b.EventID && existing.Email == b.Email {
			return domain.NewConflictError("a booking for this event and email already exists", nil)
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	c := *b
	r.bookings = append(r.bookings, &c)
	return nil
}

func (r *BookingRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.EventID == eventID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BookingRepo) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}
