package schema

import (
	"strings"

	"devevent/internal/domain"
)

type eventStep func(e *domain.Event, changed Fields) error

// eventPipeline runs in order; the first failing step aborts the write.
var eventPipeline = []eventStep{
	trimEventStrings,
	normalizeMode,
	compactLists,
	func(e *domain.Event, _ Fields) error { return checkStruct(e) },
	deriveEventSlug,
	normalizeEventDate,
	normalizeEventTime,
}

// PrepareEvent validates e and computes its derived fields in place. Pass a
// nil changed set for a new record; on update, slug, date and time are only
// recomputed when their source field is in changed.
func PrepareEvent(e *domain.Event, changed Fields) error {
	for _, step := range eventPipeline {
		if err := step(e, changed); err != nil {
			return err
		}
	}
	return nil
}

func trimEventStrings(e *domain.Event, _ Fields) error {
	for _, p := range []*string{
		&e.Title, &e.Description, &e.Overview, &e.Venue,
		&e.Location, &e.Audience, &e.Organizer, &e.Image,
	} {
		*p = strings.TrimSpace(*p)
	}
	return nil
}

func normalizeMode(e *domain.Event, _ Fields) error {
	e.Mode = strings.ToLower(strings.TrimSpace(e.Mode))
	return nil
}

func compactLists(e *domain.Event, _ Fields) error {
	e.Agenda = compact(e.Agenda)
	e.Tags = compact(e.Tags)
	return nil
}

// compact trims every item and drops blank ones. A nil list stays nil so the
// required rule can tell a missing list from an empty one.
func compact(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func deriveEventSlug(e *domain.Event, changed Fields) error {
	if !changed.Has(FieldTitle) && e.Slug != "" {
		return nil
	}
	slug := DeriveSlug(e.Title)
	if slug == "" {
		return domain.NewValidationError(FieldTitle, "Event title must contain at least one letter or digit")
	}
	e.Slug = slug
	return nil
}

func normalizeEventDate(e *domain.Event, changed Fields) error {
	if !changed.Has(FieldDate) {
		return nil
	}
	d, err := NormalizeDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = d
	return nil
}

func normalizeEventTime(e *domain.Event, changed Fields) error {
	if !changed.Has(FieldTime) {
		return nil
	}
	t, err := NormalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Time = t
	return nil
}
