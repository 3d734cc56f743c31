package services

import (
	"context"
	"log/slog"
	"time"

	"devevent/internal/domain"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewBookingService wires the booking use cases. bookingRepo is expected to
// run the schema pipeline on writes (see repository.NewBookingStore).
// emailService may be nil, in which case no confirmation is sent.
func NewBookingService(
	bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	timeout time.Duration,
	logger *slog.Logger,
) domain.BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *bookingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

// CreateBooking stores the booking and then sends a confirmation email.
// A failed email is logged and does not fail the booking.
func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking := domain.NewBooking(eventID, email)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.sendConfirmation(ctx, booking)
	return booking, nil
}

func (s *bookingService) sendConfirmation(ctx context.Context, booking *domain.Booking) {
	if s.emailService == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking confirmation skipped", "booking_id", booking.ID, "err", err)
		return
	}
	err = s.emailService.SendBookingConfirmation(ctx, &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       event.Mode,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "booking confirmation failed", "booking_id", booking.ID, "err", err)
	}
}

// ListBookings returns the bookings of an existing event, newest first.
func (s *bookingService) ListBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByEventID(ctx, eventID)
}
