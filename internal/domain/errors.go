package domain

import "errors"

// Sentinel errors shared by every layer. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration is returned when required process configuration is missing.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection is returned when the database handle cannot be established.
	ErrConnection = errors.New("connection error")
	// ErrValidation is the class of all client-correctable input errors.
	ErrValidation = errors.New("validation error")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("conflict")
	// ErrUpload is returned when the media upload service fails.
	ErrUpload = errors.New("upload error")
)

// ValidationError describes a rejected field. It unwraps to ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError wraps a store-level uniqueness violation. It unwraps to ErrConflict
// and to the driver error that caused it.
type ConflictError struct {
	Message string
	Err     error
}

// NewConflictError returns a ConflictError with a client-facing message.
func NewConflictError(message string, err error) *ConflictError {
	return &ConflictError{Message: message, Err: err}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}
