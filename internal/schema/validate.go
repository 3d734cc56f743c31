package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"devevent/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "<field>.<tag>" to the client-facing message for a failed rule.
var messages = map[string]string{
	"title.required":       "Event title is required",
	"description.required": "Event description is required",
	"overview.required":    "Event overview is required",
	"image.required":       "Event image is required",
	"venue.required":       "Event venue is required",
	"location.required":    "Event location is required",
	"date.required":        "Event date is required",
	"time.required":        "Event time is required",
	"mode.required":        "Event mode is required",
	"mode.oneof":           "Event mode must be one of online, offline, hybrid",
	"audience.required":    "Event audience is required",
	"agenda.required":      "Event agenda is required",
	"agenda.min":           "Agenda must have at least one item",
	"organizer.required":   "Event organizer is required",
	"tags.required":        "Event tags are required",
	"tags.min":             "Tags must have at least one item",
	"eventId.required":     "Event ID is required",
	"email.required":       "Email is required",
}

// checkStruct runs the struct tag rules of v and folds every failure into a
// single ValidationError naming the first failing field.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		msgs = append(msgs, msg)
	}
	return domain.NewValidationError(verrs[0].Field(), strings.Join(msgs, "; "))
}
