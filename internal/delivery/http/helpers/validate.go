package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxJSONBodyBytes caps JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes a single JSON value from the request body into
// dest, rejecting unknown fields and trailing data, and runs Validate when
// dest implements Validator. On failure it writes a 400 (or 413) JSON error
// and returns false; callers return immediately in that case.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			WriteJSONError(w, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body is too large")
		case errors.Is(err, io.EOF):
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "request body is empty")
		default:
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		}
		return false
	}
	if dec.More() {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "request body must contain a single JSON object")
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}
