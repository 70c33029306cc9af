package db

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/examprep/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	StudentsCollection   = "Students"
	ModelTestsCollection = "ModelTests"
)

// Unique index names on the Students collection
const (
	StudentEmailIndex    = "email_unique"
	StudentUsernameIndex = "username_unique"
)

// MongoDB holds the client and the application database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to MongoDB and verifies the connection with a ping
func NewMongoDB(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	timeout := cfg.Database.Mongo.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.Database.Mongo.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database.Mongo.Database),
	}, nil
}

// EnsureIndexes creates the unique indexes that back email and username
// uniqueness. Existing indexes with the same definition are left alone.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(StudentEmailIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(StudentUsernameIndex).SetUnique(true),
		},
	}

	if _, err := m.Database.Collection(StudentsCollection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create student indexes: %w", err)
	}
	return nil
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
