// Package postgres stores events and bookings in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"devevent/internal/connection"
)

// DBProvider hands out the shared pool. *connection.Manager[*sql.DB]
// satisfies it.
type DBProvider interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

// Schema creates the tables and indexes the repositories rely on.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title       TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	overview    TEXT NOT NULL,
	image       TEXT NOT NULL,
	venue       TEXT NOT NULL,
	location    TEXT NOT NULL,
	date        TEXT NOT NULL,
	time        TEXT NOT NULL,
	mode        TEXT NOT NULL,
	audience    TEXT NOT NULL,
	agenda      TEXT[] NOT NULL,
	organizer   TEXT NOT NULL,
	tags        TEXT[] NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS events_created_at_idx ON events (created_at DESC);

CREATE TABLE IF NOT EXISTS bookings (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id   UUID NOT NULL REFERENCES events (id) ON DELETE RESTRICT,
	email      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, email)
);
CREATE INDEX IF NOT EXISTS bookings_email_idx ON bookings (email);
CREATE INDEX IF NOT EXISTS bookings_event_created_idx ON bookings (event_id, created_at DESC);
`

// Dial opens a pool for the given DSN, checks it answers and applies Schema.
func Dial(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Close is the connection.Closer for pools.
func Close(_ context.Context, db *sql.DB) error {
	return db.Close()
}

var _ connection.Dialer[*sql.DB] = Dial

const (
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
	codeInvalidTextRepresentation = "22P02"
)

func pqCode(err error) string {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code)
	}
	return ""
}
