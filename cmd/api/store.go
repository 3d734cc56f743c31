package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"devevent/config"
	"devevent/internal/connection"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/domain"
	"devevent/internal/repository"
	"devevent/internal/repository/memory"
	"devevent/internal/repository/mongo"
	"devevent/internal/repository/postgres"
)

// store bundles the repositories of the configured driver. Repositories are
// wrapped in the persistence-access stores so every write runs the schema
// pipeline.
type store struct {
	events   domain.EventRepository
	bookings domain.BookingRepository
	check    controllers.HealthCheck
	close    func(ctx context.Context) error
}

// openStore builds the store without connecting. The first request (or
// health check) dials through the connection manager.
func openStore(cfg *config.Config, logger *slog.Logger) (*store, error) {
	var (
		events   domain.EventRepository
		bookings domain.BookingRepository
		check    controllers.HealthCheck
		closer   func(context.Context) error
	)

	switch cfg.StoreDriver {
	case config.StoreMongo:
		clients := connection.NewManager(connection.Options[*mongodriver.Client]{
			Name:    "mongodb",
			Target:  cfg.MongoURI,
			Dial:    mongo.Dial(cfg.MongoDatabase),
			Close:   mongo.Disconnect,
			Timeout: cfg.DBConnectTimeout,
			Logger:  logger,
		})
		events = mongo.NewEventRepository(clients, cfg.MongoDatabase)
		bookings = mongo.NewBookingRepository(clients, cfg.MongoDatabase)
		check = func(ctx context.Context) error {
			_, err := clients.Acquire(ctx)
			return err
		}
		closer = clients.Close
	case config.StorePostgres:
		pools := connection.NewManager(connection.Options[*sql.DB]{
			Name:    "postgres",
			Target:  cfg.DBUrl,
			Dial:    postgres.Dial,
			Close:   postgres.Close,
			Timeout: cfg.DBConnectTimeout,
			Logger:  logger,
		})
		events = postgres.NewEventRepository(pools)
		bookings = postgres.NewBookingRepository(pools)
		check = func(ctx context.Context) error {
			_, err := pools.Acquire(ctx)
			return err
		}
		closer = pools.Close
	case config.StoreMemory:
		logger.Warn("using the in-memory store, data is lost on restart")
		events = memory.NewEventRepo()
		bookings = memory.NewBookingRepo()
		check = func(context.Context) error { return nil }
		closer = func(context.Context) error { return nil }
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrConfiguration, cfg.StoreDriver)
	}

	eventStore := repository.NewEventStore(events, nil)
	return &store{
		events:   eventStore,
		bookings: repository.NewBookingStore(bookings, eventStore, nil),
		check:    check,
		close:    closer,
	}, nil
}
