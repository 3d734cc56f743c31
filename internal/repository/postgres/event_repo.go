package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"devevent/internal/domain"
)

const slugConflictMessage = "an event with this slug already exists"

const eventColumns = `id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

type eventRepository struct {
	dbs DBProvider
}

func NewEventRepository(dbs DBProvider) domain.EventRepository {
	return &eventRepository{
		dbs: dbs,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &e.Mode, &e.Audience, pq.Array(&e.Agenda), &e.Organizer, pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
		e.Mode, e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return domain.NewConflictError(slugConflictMessage, err)
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg string) (*domain.Event, error) {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == codeInvalidTextRepresentation {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE events
		SET title = $2, slug = $3, description = $4, overview = $5, image = $6, venue = $7, location = $8,
			date = $9, time = $10, mode = $11, audience = $12, agenda = $13, organizer = $14, tags = $15, updated_at = $16
		WHERE id = $1
	`
	res, err := db.ExecContext(ctx, query,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
		e.Mode, e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.UpdatedAt,
	)
	if err != nil {
		switch pqCode(err) {
		case codeUniqueViolation:
			return domain.NewConflictError(slugConflictMessage, err)
		case codeInvalidTextRepresentation:
			return domain.ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	db, err := r.dbs.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		switch pqCode(err) {
		case codeForeignKeyViolation:
			return domain.NewConflictError("event has bookings and cannot be deleted", err)
		case codeInvalidTextRepresentation:
			return domain.ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
