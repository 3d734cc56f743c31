package domain

import (
	"context"
	"time"
)

// Booking reserves a seat on an event for an email address. At most one
// booking exists per (EventID, Email).
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, email string) *Booking {
	return &Booking{
		EventID: eventID,
		Email:   email,
	}
}

// BookingRepository defines storage for bookings. ListByEventID returns
// bookings newest first.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
}

// EventLookup resolves an event by identifier. Used by the booking pipeline
// for its referential check.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}

// BookingService defines the booking use cases exposed over HTTP.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	ListBookings(ctx context.Context, eventID string) ([]*Booking, error)
}
