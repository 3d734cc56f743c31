package controllers

import (
	"log/slog"
	"net/http"

	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

// BookingSuccessResponse is the success response envelope for POST /api/bookings (201).
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListBookingsSuccessResponse is the success response envelope for GET /api/events/{id}/bookings (200).
type ListBookingsSuccessResponse struct {
	Data  []*domain.Booking `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book an event
// @Description Books a seat on an event for an email address and sends a confirmation email. One booking per event and email.
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body CreateBookingRequest true "Event ID and email"
// @Success 201 {object} controllers.BookingSuccessResponse "data contains the booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), req.EventID, req.Email)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListBookings godoc
// @Summary List the bookings of an event
// @Tags bookings
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.ListBookingsSuccessResponse "data contains the bookings, newest first"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id}/bookings [get]
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := c.Service.ListBookings(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}
