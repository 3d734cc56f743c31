package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevent/internal/domain"
)

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Overview    string             `bson:"overview"`
	Image       string             `bson:"image"`
	Venue       string             `bson:"venue"`
	Location    string             `bson:"location"`
	Date        string             `bson:"date"`
	Time        string             `bson:"time"`
	Mode        string             `bson:"mode"`
	Audience    string             `bson:"audience"`
	Agenda      []string           `bson:"agenda"`
	Organizer   string             `bson:"organizer"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newEventDocument(e *domain.Event) eventDocument {
	return eventDocument{
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Overview:    e.Overview,
		Image:       e.Image,
		Venue:       e.Venue,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Mode:        e.Mode,
		Audience:    e.Audience,
		Agenda:      e.Agenda,
		Organizer:   e.Organizer,
		Tags:        e.Tags,
		CreatedAt:   millis(e.CreatedAt),
		UpdatedAt:   millis(e.UpdatedAt),
	}
}

func (d *eventDocument) toDomain() *domain.Event {
	return &domain.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Overview:    d.Overview,
		Image:       d.Image,
		Venue:       d.Venue,
		Location:    d.Location,
		Date:        d.Date,
		Time:        d.Time,
		Mode:        d.Mode,
		Audience:    d.Audience,
		Agenda:      d.Agenda,
		Organizer:   d.Organizer,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

const slugConflictMessage = "an event with this slug already exists"

type eventRepository struct {
	clients  ClientProvider
	database string
}

// NewEventRepository returns a domain.EventRepository backed by the events
// collection of database.
func NewEventRepository(clients ClientProvider, database string) domain.EventRepository {
	return &eventRepository{clients: clients, database: database}
}

func (r *eventRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.clients, r.database, EventsCollection)
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	doc := newEventDocument(e)
	doc.ID = primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflictError(slugConflictMessage, err)
		}
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *eventRepository) findOne(ctx context.Context, filter bson.M) (*domain.Event, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	doc := newEventDocument(e)
	doc.ID = oid
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflictError(slugConflictMessage, err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
