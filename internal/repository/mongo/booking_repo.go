package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevent/internal/domain"
)

type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"eventId"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *bookingDocument) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:        d.ID.Hex(),
		EventID:   d.EventID.Hex(),
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type bookingRepository struct {
	clients  ClientProvider
	database string
}

// NewBookingRepository returns a domain.BookingRepository backed by the
// bookings collection of database.
func NewBookingRepository(clients ClientProvider, database string) domain.BookingRepository {
	return &bookingRepository{clients: clients, database: database}
}

func (r *bookingRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.clients, r.database, BookingsCollection)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	eventID, err := primitive.ObjectIDFromHex(b.EventID)
	if err != nil {
		return domain.NewValidationError("eventId", "Event ID must be a valid identifier")
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	doc := bookingDocument{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		Email:     b.Email,
		CreatedAt: millis(b.CreatedAt),
		UpdatedAt: millis(b.UpdatedAt),
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflictError("a booking for this event and email already exists", err)
		}
		return err
	}
	b.ID = doc.ID.Hex()
	return nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return []*domain.Booking{}, nil
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"eventId": oid}, opts)
	if err != nil {
		return nil, err
	}
	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toDomain())
	}
	return bookings, nil
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, nil
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{"eventId": oid})
}
