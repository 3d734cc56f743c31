package postgres

import (
	"context"

	"devevent/internal/domain"
)

type bookingRepository struct {
	dbs DBProvider
}

func NewBookingRepository(dbs DBProvider) domain.BookingRepository {
	return &bookingRepository{
		dbs: dbs,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	if err != nil {
		switch pqCode(err) {
		case codeUniqueViolation:
			return domain.NewConflictError("a booking for this event and email already exists", err)
		case codeForeignKeyViolation, codeInvalidTextRepresentation:
			return domain.NewValidationError("eventId", "Event with ID "+b.EventID+" does not exist. Please provide a valid event ID.")
		}
		return err
	}
	return nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	bookings := make([]*domain.Booking, 0)
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		if pqCode(err) == codeInvalidTextRepresentation {
			return bookings, nil
		}
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = b.CreatedAt.UTC()
		b.UpdatedAt = b.UpdatedAt.UTC()
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		if pqCode(err) == codeInvalidTextRepresentation {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
