// Package mongo stores events and bookings in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"devevent/internal/connection"
)

// Collection names.
const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"
)

// ClientProvider hands out the shared client. *connection.Manager[*mongo.Client]
// satisfies it.
type ClientProvider interface {
	Acquire(ctx context.Context) (*mongo.Client, error)
}

// Dial returns a connection.Dialer that connects to the URI, verifies the
// primary is reachable and makes sure the indexes of database exist.
func Dial(database string) connection.Dialer[*mongo.Client] {
	return func(ctx context.Context, uri string) (*mongo.Client, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping: %w", err)
		}
		if err := EnsureIndexes(ctx, client.Database(database)); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return client, nil
	}
}

// Disconnect is the connection.Closer for mongo clients.
func Disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create %s indexes: %w", EventsCollection, err)
	}

	_, err = db.Collection(BookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("eventId_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email"),
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("eventId_createdAt_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create %s indexes: %w", BookingsCollection, err)
	}
	return nil
}

func collection(ctx context.Context, clients ClientProvider, database, name string) (*mongo.Collection, error) {
	client, err := clients.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(database).Collection(name), nil
}

// millis truncates t to the precision BSON dates keep.
func millis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
