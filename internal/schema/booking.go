package schema

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"devevent/internal/domain"
)

// emailPattern accepts local@domain.tld with no whitespace and a single @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PrepareBooking normalizes and validates b in place. The referenced event is
// looked up only when the booking is new (nil changed) or its eventId changed;
// the store itself does not enforce the reference.
func PrepareBooking(ctx context.Context, b *domain.Booking, changed Fields, events domain.EventLookup) error {
	b.EventID = strings.TrimSpace(b.EventID)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))

	if err := checkStruct(b); err != nil {
		return err
	}
	if !emailPattern.MatchString(b.Email) {
		return domain.NewValidationError(FieldEmail, "Please provide a valid email address")
	}
	if !changed.Has(FieldEventID) {
		return nil
	}
	if _, err := events.GetByID(ctx, b.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(FieldEventID,
				fmt.Sprintf("Event with ID %s does not exist. Please provide a valid event ID.", b.EventID))
		}
		return fmt.Errorf("look up event %s: %w", b.EventID, err)
	}
	return nil
}
