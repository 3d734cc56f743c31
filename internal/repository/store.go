// Package repository is the persistence-access layer. Its stores wrap a
// storage backend and run the schema pipeline before every write, so no
// backend ever sees an unvalidated or un-normalized record.
package repository

import (
	"context"
	"fmt"
	"time"

	"devevent/internal/domain"
	"devevent/internal/schema"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

type eventStore struct {
	backend domain.EventRepository
	clock   Clock
}

// NewEventStore returns an EventRepository that prepares every event with
// schema.PrepareEvent and stamps its timestamps before delegating to backend.
func NewEventStore(backend domain.EventRepository, clock Clock) domain.EventRepository {
	return &eventStore{backend: backend, clock: clock}
}

func (s *eventStore) Create(ctx context.Context, e *domain.Event) error {
	if err := schema.PrepareEvent(e, nil); err != nil {
		return err
	}
	now := s.clock.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.backend.Create(ctx, e)
}

func (s *eventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.backend.GetByID(ctx, id)
}

func (s *eventStore) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return s.backend.GetBySlug(ctx, slug)
}

func (s *eventStore) List(ctx context.Context) ([]*domain.Event, error) {
	return s.backend.List(ctx)
}

// Update diffs e against the stored record and re-runs only the steps whose
// source fields changed. An update that changes nothing is not written.
func (s *eventStore) Update(ctx context.Context, e *domain.Event) error {
	current, err := s.backend.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	changed := schema.DiffEvent(current, e)
	if len(changed) == 0 {
		*e = *current
		return nil
	}
	e.Slug = current.Slug
	if err := schema.PrepareEvent(e, changed); err != nil {
		return err
	}
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = s.clock.now()
	if err := s.backend.Update(ctx, e); err != nil {
		return fmt.Errorf("update event %s: %w", e.ID, err)
	}
	return nil
}

func (s *eventStore) Delete(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, id)
}

type bookingStore struct {
	backend domain.BookingRepository
	events  domain.EventLookup
	clock   Clock
}

// NewBookingStore returns a BookingRepository that prepares every booking
// with schema.PrepareBooking, including the lookup of the referenced event
// through events, before delegating to backend.
func NewBookingStore(backend domain.BookingRepository, events domain.EventLookup, clock Clock) domain.BookingRepository {
	return &bookingStore{backend: backend, events: events, clock: clock}
}

func (s *bookingStore) Create(ctx context.Context, b *domain.Booking) error {
	if err := schema.PrepareBooking(ctx, b, nil, s.events); err != nil {
		return err
	}
	now := s.clock.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return s.backend.Create(ctx, b)
}

func (s *bookingStore) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	return s.backend.ListByEventID(ctx, eventID)
}

func (s *bookingStore) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	return s.backend.CountByEventID(ctx, eventID)
}
