// Package schema holds the validation and normalization pipelines that run
// on every Event and Booking before it is written.
package schema

import (
	"slices"

	"devevent/internal/domain"
)

// Field names, matching the JSON names of the record.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldOverview    = "overview"
	FieldImage       = "image"
	FieldVenue       = "venue"
	FieldLocation    = "location"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldMode        = "mode"
	FieldAudience    = "audience"
	FieldAgenda      = "agenda"
	FieldOrganizer   = "organizer"
	FieldTags        = "tags"

	FieldEventID = "eventId"
	FieldEmail   = "email"
)

// Fields is the set of fields that changed in a write. A nil set means the
// record is new and every field counts as changed.
type Fields map[string]struct{}

// NewFields returns a set holding names.
func NewFields(names ...string) Fields {
	f := make(Fields, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

// Has reports whether name changed. Every field is changed in a nil set.
func (f Fields) Has(name string) bool {
	if f == nil {
		return true
	}
	_, ok := f[name]
	return ok
}

// DiffEvent returns the fields whose values differ between before and after.
func DiffEvent(before, after *domain.Event) Fields {
	changed := Fields{}
	str := func(name, a, b string) {
		if a != b {
			changed[name] = struct{}{}
		}
	}
	str(FieldTitle, before.Title, after.Title)
	str(FieldDescription, before.Description, after.Description)
	str(FieldOverview, before.Overview, after.Overview)
	str(FieldImage, before.Image, after.Image)
	str(FieldVenue, before.Venue, after.Venue)
	str(FieldLocation, before.Location, after.Location)
	str(FieldDate, before.Date, after.Date)
	str(FieldTime, before.Time, after.Time)
	str(FieldMode, before.Mode, after.Mode)
	str(FieldAudience, before.Audience, after.Audience)
	str(FieldOrganizer, before.Organizer, after.Organizer)
	if !slices.Equal(before.Agenda, after.Agenda) {
		changed[FieldAgenda] = struct{}{}
	}
	if !slices.Equal(before.Tags, after.Tags) {
		changed[FieldTags] = struct{}{}
	}
	return changed
}
