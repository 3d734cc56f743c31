package schema

import (
	"strings"
	"time"

	"github.com/jinzhu/now"

	"devevent/internal/domain"
)

// CanonicalDateLayout is the stored form of Event.Date.
const CanonicalDateLayout = "2006-01-02"

// dateParser accepts ISO dates and timestamps plus the common written forms
// submitted by the event form ("March 5, 2024", "03/05/2024", ...).
var dateParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		CanonicalDateLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 3:04 PM",
		"2006-1-2",
		"2006/01/02",
		"2006/1/2 15:04",
		"2006/1/2",
		"01/02/2006",
		"1/2/2006",
		"January 2, 2006 3:04 PM",
		"January 2, 2006",
		"January 2 2006 15:04",
		"January 2 2006",
		"Jan 2, 2006 15:04",
		"Jan 2, 2006",
		"Jan 2 2006",
		"2 January 2006",
		"2 Jan 2006",
		"Monday, January 2, 2006",
		"Mon, Jan 2, 2006",
		"Mon Jan 2 2006",
		time.RFC1123Z,
		time.RFC1123,
	},
}

// NormalizeDate parses date as a calendar date and returns it as YYYY-MM-DD.
// Timestamps carrying a zone offset are converted to UTC first.
func NormalizeDate(date string) (string, error) {
	s := strings.TrimSpace(date)
	if s == "" {
		return "", domain.NewValidationError(FieldDate, "Invalid date format")
	}
	t, err := dateParser.Parse(s)
	if err != nil {
		return "", domain.NewValidationError(FieldDate, "Invalid date format")
	}
	return t.UTC().Format(CanonicalDateLayout), nil
}

// NormalizeTime trims time and rejects it when nothing is left.
func NormalizeTime(value string) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", domain.NewValidationError(FieldTime, "Time cannot be empty")
	}
	return s, nil
}
