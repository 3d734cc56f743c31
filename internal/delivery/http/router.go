package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(events *controllers.EventController, bookings *controllers.BookingController, health *controllers.HealthController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /api/events", events.CreateEvent)
	mux.HandleFunc("GET /api/events", events.ListEvents)
	mux.HandleFunc("GET /api/events/{slug}", events.GetEventBySlug)
	mux.HandleFunc("PATCH /api/events/{id}", events.UpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", events.DeleteEvent)

	// Bookings
	mux.HandleFunc("POST /api/bookings", bookings.CreateBooking)
	mux.HandleFunc("GET /api/events/{id}/bookings", bookings.ListBookings)

	mux.HandleFunc("GET /healthz", health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain: panic recovery,
// request logging and CORS for the allowed origins.
func NewHandler(logger *slog.Logger, router http.Handler, allowedOrigins []string) http.Handler {
	var h http.Handler = router
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.Recover(logger, h)
	h = middleware.LoggingMiddleware(logger, h)
	return h
}
