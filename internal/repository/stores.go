package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/repository/mongorepo"
	"github.com/noah-isme/arcade-hub-api/pkg/config"
	"github.com/noah-isme/arcade-hub-api/pkg/database"
)

// EventStore persists agenda entries.
type EventStore interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// HighscoreStore persists submitted scores.
type HighscoreStore interface {
	List(ctx context.Context, filter models.HighscoreFilter) ([]models.Highscore, error)
	FindByID(ctx context.Context, id string) (*models.Highscore, error)
	Create(ctx context.Context, score *models.Highscore) error
	Approve(ctx context.Context, id, approvedBy string, approvedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ContentStore persists the keyed content documents.
type ContentStore interface {
	Get(ctx context.Context, id string) (*models.ContentDocument, error)
	Put(ctx context.Context, doc *models.ContentDocument) error
	Merge(ctx context.Context, doc *models.ContentDocument) error
	Seed(ctx context.Context, doc *models.ContentDocument) (bool, error)
}

// Stores is the content store selected by STORE_DRIVER. Users, tokens and
// audit logs always live in PostgreSQL.
type Stores struct {
	Driver     string
	Events     EventStore
	Highscores HighscoreStore
	Content    ContentStore
	Ping       func(ctx context.Context) error

	mongo *mongo.Client
}

// OpenStores connects the configured content store. db backs the postgres driver.
func OpenStores(ctx context.Context, cfg *config.Config, db *sqlx.DB, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, mdb, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Info("content store ready", zap.String("driver", cfg.Store.Driver), zap.String("database", cfg.Mongo.Database))
		return &Stores{
			Driver:     cfg.Store.Driver,
			Events:     mongorepo.NewEventRepository(mdb),
			Highscores: mongorepo.NewHighscoreRepository(mdb),
			Content:    mongorepo.NewContentRepository(mdb),
			Ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			mongo:      client,
		}, nil
	default:
		if db == nil {
			return nil, fmt.Errorf("postgres store requires a database handle")
		}
		logger.Info("content store ready", zap.String("driver", config.StoreDriverPostgres))
		return &Stores{
			Driver:     config.StoreDriverPostgres,
			Events:     NewEventRepository(db),
			Highscores: NewHighscoreRepository(db),
			Content:    NewContentRepository(db),
			Ping:       db.PingContext,
		}, nil
	}
}

// Close releases the mongo client when one was opened.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.mongo == nil {
		return nil
	}
	return s.mongo.Disconnect(ctx)
}
