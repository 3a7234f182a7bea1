package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-booking-service/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const mongoConnectTimeout = 10 * time.Second

// DatabaseProvider hands out the application database to repositories.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

type connectFunc func(ctx context.Context) (*mongo.Client, error)

// MongoProvider owns the process-wide Mongo client. Concurrent first callers
// share a single connect attempt; a failed attempt is not cached.
type MongoProvider struct {
	dbName  string
	log     *logrus.Logger
	connect connectFunc

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

func NewMongoProvider(cfg config.MongoConfig, log *logrus.Logger) *MongoProvider {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(NewRegistry())

	return newMongoProvider(cfg.Database, log, func(ctx context.Context) (*mongo.Client, error) {
		ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return client, nil
	})
}

func newMongoProvider(dbName string, log *logrus.Logger, connect connectFunc) *MongoProvider {
	return &MongoProvider{
		dbName:  dbName,
		log:     log,
		connect: connect,
	}
}

// Client returns the cached client, connecting on first use.
func (p *MongoProvider) Client(ctx context.Context) (*mongo.Client, error) {
	p.mu.RLock()
	client := p.client
	p.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	v, err, _ := p.group.Do("connect", func() (interface{}, error) {
		p.mu.RLock()
		existing := p.client
		p.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// shared by every waiting caller
		c, err := p.connect(context.WithoutCancel(ctx))
		if err != nil {
			p.log.Warnf("Failed to connect to MongoDB: %+v", err)
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}

		p.mu.Lock()
		p.client = c
		p.mu.Unlock()

		p.log.Info("Successfully connected to MongoDB")
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*mongo.Client), nil
}

func (p *MongoProvider) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(p.dbName), nil
}

// Disconnect closes the client if one was created. The next call to Client reconnects.
func (p *MongoProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// StaticDatabase serves a fixed database handle.
type StaticDatabase struct {
	DB *mongo.Database
}

func (s StaticDatabase) Database(context.Context) (*mongo.Database, error) {
	return s.DB, nil
}
