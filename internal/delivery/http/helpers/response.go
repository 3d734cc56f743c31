package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"devevent/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodePayloadTooLarge    = "payload_too_large"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// Messages returned for failures whose details stay in the logs.
const (
	MsgUploadFailed     = "Image upload failed"
	MsgStoreUnavailable = "Database is unavailable"
	MsgInternalError    = "Internal server error"
)

// WriteServiceError maps an error returned by a service to the envelope:
// validation to 400, not found to 404 (with notFound as message), conflict to
// 409 and everything else to 500. 500s are logged with the full error and
// answered with a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError
	switch {
	case errors.As(err, &verr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Message)
		return
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
		return
	case errors.As(err, &cerr):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, cerr.Message)
		return
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "conflict")
		return
	}

	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	switch {
	case errors.Is(err, domain.ErrUpload):
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, MsgUploadFailed)
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrConfiguration):
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, MsgStoreUnavailable)
	default:
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, MsgInternalError)
	}
}
