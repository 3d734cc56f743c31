package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

// DefaultMaxUploadBytes caps the image part of a create request.
const DefaultMaxUploadBytes = 10 << 20

// multipartOverhead is the room left for the text fields of a create request.
const multipartOverhead = 1 << 20

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	MaxUploadBytes int64
}

func NewEventController(logger *slog.Logger, svc domain.EventService, maxUploadBytes int64) *EventController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &EventController{
		Logger:         logger,
		Service:        svc,
		MaxUploadBytes: maxUploadBytes,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event from multipart form fields and an image file. The image is stored on the media host and its URL saved on the event. agenda and tags accept either a JSON array string or repeated fields. slug and timestamps are server-generated.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param overview formData string true "Overview"
// @Param venue formData string true "Venue"
// @Param location formData string true "Location"
// @Param date formData string true "Date, any common format; stored as YYYY-MM-DD"
// @Param time formData string true "Time"
// @Param mode formData string true "online, offline or hybrid"
// @Param audience formData string true "Audience"
// @Param agenda formData string true "JSON array of agenda items"
// @Param organizer formData string true "Organizer"
// @Param tags formData string true "JSON array of tags"
// @Param image formData file true "Event image"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, "request body is too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "request must be multipart/form-data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Image file is required")
		return
	}
	defer file.Close()
	if header.Size > c.MaxUploadBytes {
		helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, "image is too large")
		return
	}

	agenda, err := formList(r, "agenda")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "agenda must be a JSON array of strings")
		return
	}
	tags, err := formList(r, "tags")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "tags must be a JSON array of strings")
		return
	}

	input := &domain.CreateEventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Audience:    r.FormValue("audience"),
		Agenda:      agenda,
		Organizer:   r.FormValue("organizer"),
		Tags:        tags,
		Image: &domain.EventImage{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		},
	}
	event, err := c.Service.CreateEvent(r.Context(), input)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// formList reads a list field sent either as one JSON array string or as
// repeated form values. An absent field yields nil.
func formList(r *http.Request, key string) ([]string, error) {
	values := r.MultipartForm.Value[key]
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []string{}
		}
		return list, nil
	}
	return values, nil
}

// ListEvents godoc
// @Summary List events
// @Description Returns all events, newest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(strings.TrimSpace(r.PathValue("slug")))
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /api/events/{id}. All fields
// optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	domain.EventPatch
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	p := u.EventPatch
	if p.Title == nil && p.Description == nil && p.Overview == nil && p.Venue == nil &&
		p.Location == nil && p.Date == nil && p.Time == nil && p.Mode == nil &&
		p.Audience == nil && p.Agenda == nil && p.Organizer == nil && p.Tags == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates the given fields. Changing the title regenerates the slug; date and time are normalized again when changed.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, &req.EventPatch)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event without bookings and removes its image from the media host.
// @Tags events
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event has bookings)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
