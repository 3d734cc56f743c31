package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"devevent/internal/domain"
	"devevent/internal/schema"
)

// ImageFolder is the media folder event images are stored under.
const ImageFolder = "DevEvent"

type eventService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	media          domain.MediaUploader
	imageFolder    string
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewEventService wires the event use cases. eventRepo is expected to run
// the schema pipeline on writes (see repository.NewEventStore).
func NewEventService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	media domain.MediaUploader,
	imageFolder string,
	timeout time.Duration,
	logger *slog.Logger,
) domain.EventService {
	if imageFolder == "" {
		imageFolder = ImageFolder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		media:          media,
		imageFolder:    imageFolder,
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

// CreateEvent uploads the image and stores the event with its URL. The
// metadata is checked before the upload so a rejected event leaves no
// orphaned image; a failed write removes the uploaded image again.
func (s *eventService) CreateEvent(ctx context.Context, input *domain.CreateEventInput) (*domain.Event, error) {
	if input == nil {
		return nil, domain.NewValidationError("", "Event data is required")
	}
	if input.Image == nil || input.Image.Content == nil {
		return nil, domain.NewValidationError("image", "Image file is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Overview:    input.Overview,
		Venue:       input.Venue,
		Location:    input.Location,
		Date:        input.Date,
		Time:        input.Time,
		Mode:        input.Mode,
		Audience:    input.Audience,
		Agenda:      input.Agenda,
		Organizer:   input.Organizer,
		Tags:        input.Tags,
	}

	draft := event.Clone()
	draft.Image = "pending"
	if err := schema.PrepareEvent(draft, nil); err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, &domain.MediaUpload{
		Filename: input.Image.Filename,
		Folder:   s.imageFolder,
		Content:  input.Image.Content,
	})
	if err != nil {
		return nil, err
	}
	event.Image = url

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.discardImage(ctx, url)
		return nil, err
	}
	return event, nil
}

// discardImage removes an image that no stored event references.
func (s *eventService) discardImage(ctx context.Context, url string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), url); err != nil {
		s.logger.WarnContext(ctx, "failed to remove unreferenced image", "url", url, "err", err)
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.eventRepo.List(ctx)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.eventRepo.GetBySlug(ctx, slug)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch != nil {
		patch.Apply(event)
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event that has no bookings, then its image.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.bookingRepo.CountByEventID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return domain.NewConflictError(fmt.Sprintf("Event has %d booking(s) and cannot be deleted", n), nil)
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return err
	}
	if event.Image != "" {
		s.discardImage(ctx, event.Image)
	}
	return nil
}
