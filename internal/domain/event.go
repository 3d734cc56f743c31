package domain

import (
	"context"
	"io"
	"time"
)

// Event modes accepted by the schema, stored lowercase.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

// Event is a listed event. Slug, CreatedAt and UpdatedAt are system-managed.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Slug        string    `json:"slug"`
	Description string    `json:"description" validate:"required"`
	Overview    string    `json:"overview" validate:"required"`
	Image       string    `json:"image" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"required"`
	Mode        string    `json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string    `json:"audience" validate:"required"`
	Agenda      []string  `json:"agenda" validate:"required,min=1"`
	Organizer   string    `json:"organizer" validate:"required"`
	Tags        []string  `json:"tags" validate:"required,min=1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	if e.Agenda != nil {
		c.Agenda = append([]string{}, e.Agenda...)
	}
	if e.Tags != nil {
		c.Tags = append([]string{}, e.Tags...)
	}
	return &c
}

// EventRepository defines storage for events. List returns events ordered by
// creation time, newest first.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventImage is the binary image submitted with an event.
type EventImage struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateEventInput carries the metadata and image of a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Overview    string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
	Image       *EventImage
}

// EventPatch holds a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Overview    *string   `json:"overview"`
	Venue       *string   `json:"venue"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Mode        *string   `json:"mode"`
	Audience    *string   `json:"audience"`
	Agenda      *[]string `json:"agenda"`
	Organizer   *string   `json:"organizer"`
	Tags        *[]string `json:"tags"`
}

// Apply copies the set fields of the patch onto e.
func (p *EventPatch) Apply(e *Event) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Title, p.Title)
	set(&e.Description, p.Description)
	set(&e.Overview, p.Overview)
	set(&e.Venue, p.Venue)
	set(&e.Location, p.Location)
	set(&e.Date, p.Date)
	set(&e.Time, p.Time)
	set(&e.Mode, p.Mode)
	set(&e.Audience, p.Audience)
	set(&e.Organizer, p.Organizer)
	if p.Agenda != nil {
		e.Agenda = append([]string{}, (*p.Agenda)...)
	}
	if p.Tags != nil {
		e.Tags = append([]string{}, (*p.Tags)...)
	}
}

// EventService defines the event use cases exposed over HTTP.
type EventService interface {
	CreateEvent(ctx context.Context, input *CreateEventInput) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
