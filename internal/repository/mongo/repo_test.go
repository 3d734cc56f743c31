package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"devevent/internal/domain"
)

const testDatabase = "devevent"

type staticClient struct {
	client *mongo.Client
}

func (s staticClient) Acquire(context.Context) (*mongo.Client, error) {
	return s.client, nil
}

type failingClient struct {
	err error
}

func (f failingClient) Acquire(context.Context) (*mongo.Client, error) {
	return nil, f.err
}

func sampleEvent() *domain.Event {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
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
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func eventDoc(id primitive.ObjectID, slug string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Go Meetup"},
		{Key: "slug", Value: slug},
		{Key: "mode", Value: "offline"},
		{Key: "agenda", Value: bson.A{"Intro", "Talks"}},
		{Key: "tags", Value: bson.A{"go"}},
		{Key: "date", Value: "2024-03-05"},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}
}

func ns(coll string) string {
	return testDatabase + "." + coll
}

func TestEventRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		e := sampleEvent()
		require.NoError(mt, repo.Create(context.Background(), e))
		_, err := primitive.ObjectIDFromHex(e.ID)
		require.NoError(mt, err)
	})

	mt.Run("create duplicate slug is a conflict", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: devevent.events index: slug_unique",
		}))

		e := sampleEvent()
		err := repo.Create(context.Background(), e)
		require.ErrorIs(mt, err, domain.ErrConflict)
		assert.Empty(mt, e.ID)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		id := primitive.NewObjectID()
		created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(EventsCollection), mtest.FirstBatch, eventDoc(id, "go-meetup", created)))

		got, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, "go-meetup", got.Slug)
		assert.Equal(mt, []string{"Intro", "Talks"}, got.Agenda)
		assert.True(mt, created.Equal(got.CreatedAt))
	})

	mt.Run("get by id with malformed id is not found", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		_, err := repo.GetByID(context.Background(), "not-an-object-id")
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("get by slug not found", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(EventsCollection), mtest.FirstBatch))

		_, err := repo.GetBySlug(context.Background(), "missing")
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(EventsCollection), mtest.FirstBatch,
			eventDoc(primitive.NewObjectID(), "newer", newer),
			eventDoc(primitive.NewObjectID(), "older", older),
		))

		events, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, events, 2)
		assert.Equal(mt, "newer", events[0].Slug)
		assert.Equal(mt, "older", events[1].Slug)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(EventsCollection), mtest.FirstBatch))

		events, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, events)
		assert.Empty(mt, events)
	})

	mt.Run("update missing is not found", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		e := sampleEvent()
		e.ID = primitive.NewObjectID().Hex()
		require.ErrorIs(mt, repo.Update(context.Background(), e), domain.ErrNotFound)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		e := sampleEvent()
		e.ID = primitive.NewObjectID().Hex()
		require.NoError(mt, repo.Update(context.Background(), e))
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing is not found", func(mt *mtest.T) {
		repo := NewEventRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		require.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()), domain.ErrNotFound)
	})
}

func TestEventRepository_AcquireFailure(t *testing.T) {
	repo := NewEventRepository(failingClient{err: domain.ErrConfiguration}, testDatabase)
	_, err := repo.List(context.Background())
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestBookingRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := domain.NewBooking(primitive.NewObjectID().Hex(), "ada@example.com")
		require.NoError(mt, repo.Create(context.Background(), b))
		assert.NotEmpty(mt, b.ID)
	})

	mt.Run("create duplicate is a conflict", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: devevent.bookings index: eventId_email_unique",
		}))

		b := domain.NewBooking(primitive.NewObjectID().Hex(), "ada@example.com")
		require.ErrorIs(mt, repo.Create(context.Background(), b), domain.ErrConflict)
	})

	mt.Run("create with malformed event id", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		b := domain.NewBooking("nope", "ada@example.com")
		require.ErrorIs(mt, repo.Create(context.Background(), b), domain.ErrValidation)
	})

	mt.Run("list by event", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		eventID := primitive.NewObjectID()
		at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(BookingsCollection), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "eventId", Value: eventID},
				{Key: "email", Value: "ada@example.com"},
				{Key: "createdAt", Value: at},
				{Key: "updatedAt", Value: at},
			},
		))

		bookings, err := repo.ListByEventID(context.Background(), eventID.Hex())
		require.NoError(mt, err)
		require.Len(mt, bookings, 1)
		assert.Equal(mt, eventID.Hex(), bookings[0].EventID)
		assert.Equal(mt, "ada@example.com", bookings[0].Email)
	})

	mt.Run("count by event", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(BookingsCollection), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int64(2)}},
		))

		n, err := repo.CountByEventID(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("malformed event id has no bookings", func(mt *mtest.T) {
		repo := NewBookingRepository(staticClient{mt.Client}, testDatabase)
		n, err := repo.CountByEventID(context.Background(), "nope")
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}
