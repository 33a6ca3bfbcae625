// Package store persists products, support tickets and site settings in one
// of several document stores. Products are kept as untyped documents; the
// catalog package is responsible for making sense of them.
package store

import (
	"context"

	"github.com/pkg/errors"

	"storefront/condb"
	"storefront/config"
	"storefront/models"
)

var ErrNotFound = errors.New("store: not found")

type Store interface {
	// FindProductBySlug returns the document whose slug matches, or whose id
	// matches when no slug does. ErrNotFound when neither exists.
	FindProductBySlug(ctx context.Context, slug string) (models.Document, error)
	// ListPublishedProducts returns at most limit published documents
	// ordered by document id.
	ListPublishedProducts(ctx context.Context, limit int) ([]models.Document, error)

	CreateTicket(ctx context.Context, t models.SupportTicket) error
	// ListTickets returns tickets newest first.
	ListTickets(ctx context.Context, f models.TicketFilter) ([]models.SupportTicket, error)

	// GetSetting returns ErrNotFound when key was never written.
	GetSetting(ctx context.Context, key string) (map[string]any, error)
	PutSetting(ctx context.Context, key string, value map[string]any) error

	Driver() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := condb.Postgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := NewPostgres(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	case config.DriverMongo:
		client, err := condb.Mongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongo(client, cfg.MongoDatabase), nil
	case config.DriverBolt:
		db, err := condb.Bolt(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		s, err := NewBolt(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
