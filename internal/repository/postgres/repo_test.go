package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/domain"
)

type staticDB struct {
	db *sql.DB
}

func (s staticDB) Acquire(context.Context) (*sql.DB, error) {
	return s.db, nil
}

var testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func sampleEvent() *domain.Event {
	return &domain.Event{
		Title:       "Go Meetup",
		Slug:        "go-meetup",
		Description: "Monthly meetup",
		Overview:    "Talks and pizza",
		Image:       "https://cdn.example.com/DevEvent/a.png",
		Venue:       "Hub",
		Location:    "Lisbon",
		Date:        "2024-03-05",
		Time:        "18:00",
		Mode:        domain.ModeOffline,
		Audience:    "Gophers",
		Agenda:      []string{"Intro", "Talks"},
		Organizer:   "Go Lisbon",
		Tags:        []string{"go"},
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "slug", "description", "overview", "image", "venue", "location",
		"date", "time", "mode", "audience", "agenda", "organizer", "tags", "created_at", "updated_at",
	})
}

func addEventRow(rows *sqlmock.Rows, id, slug string) *sqlmock.Rows {
	return rows.AddRow(id, "Go Meetup", slug, "Monthly meetup", "Talks and pizza", "https://cdn.example.com/DevEvent/a.png",
		"Hub", "Lisbon", "2024-03-05", "18:00", "offline", "Gophers", []byte(`{Intro,Talks}`), "Go Lisbon", []byte(`{go}`),
		testTime, testTime)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, slug,`).
					WithArgs("Go Meetup", "go-meetup", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
						sqlmock.AnyArg(), "2024-03-05", "18:00", "offline", sqlmock.AnyArg(), sqlmock.AnyArg(),
						sqlmock.AnyArg(), sqlmock.AnyArg(), testTime, testTime).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "duplicate slug",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.mock(mock)

			e := sampleEvent()
			err := NewEventRepository(staticDB{db}).Create(ctx, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, e.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events WHERE slug = \$1`).
					WithArgs("go-meetup").
					WillReturnRows(addEventRow(eventRows(), "ev-1", "go-meetup"))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events WHERE slug = \$1`).
					WithArgs("go-meetup").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.mock(mock)

			got, err := NewEventRepository(staticDB{db}).GetBySlug(ctx, "go-meetup")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ev-1", got.ID)
			assert.Equal(t, []string{"Intro", "Talks"}, got.Agenda)
			assert.Equal(t, []string{"go"}, got.Tags)
			assert.Equal(t, testTime, got.CreatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID_MalformedID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err := NewEventRepository(staticDB{db}).GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_List(t *testing.T) {
	db, mock := newMock(t)
	rows := eventRows()
	addEventRow(rows, "ev-2", "newer")
	addEventRow(rows, "ev-1", "older")
	mock.ExpectQuery(`SELECT .+ FROM events ORDER BY created_at DESC`).WillReturnRows(rows)

	events, err := NewEventRepository(staticDB{db}).List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "newer", events[0].Slug)
	assert.Equal(t, "older", events[1].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "slug taken",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.mock(mock)

			e := sampleEvent()
			e.ID = "ev-1"
			err := NewEventRepository(staticDB{db}).Update(ctx, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "has bookings",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.mock(mock)

			err := NewEventRepository(staticDB{db}).Delete(ctx, "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings \(event_id, email, created_at, updated_at\)`).
					WithArgs("ev-1", "ada@example.com", testTime, testTime).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-1"))
			},
		},
		{
			name: "duplicate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "event vanished",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.mock(mock)

			b := &domain.Booking{EventID: "ev-1", Email: "ada@example.com", CreatedAt: testTime, UpdatedAt: testTime}
			err := NewBookingRepository(staticDB{db}).Create(ctx, b)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "bk-1", b.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_ListAndCount(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, event_id, email, created_at, updated_at\s+FROM bookings`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "created_at", "updated_at"}).
			AddRow("bk-2", "ev-1", "grace@example.com", testTime.Add(time.Minute), testTime.Add(time.Minute)).
			AddRow("bk-1", "ev-1", "ada@example.com", testTime, testTime))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	repo := NewBookingRepository(staticDB{db})
	bookings, err := repo.ListByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "bk-2", bookings[0].ID)

	n, err := repo.CountByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
