// Package mongodb implements the repository interfaces on MongoDB.
//
// Two collections back the application: "users" holds account documents and
// "snippets" holds snippet documents. Documents carry a server-friendly
// ObjectID as _id, which is exposed to the rest of the program as its hex
// string.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	snippetsCollection = "snippets"
)

// DB implements repository.UserRepository and repository.SnippetRepository.
type DB struct {
	client   *mongo.Client
	users    *mongo.Collection
	snippets *mongo.Collection
}

// New connects to the server at uri, verifies the connection with a ping and
// makes sure the unique username index exists.
func New(ctx context.Context, uri, database string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	db := NewFromDatabase(client.Database(database))
	db.client = client

	if err := db.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return db, nil
}

// NewFromDatabase wraps an already connected database handle. The caller
// keeps ownership of the client; Close is a no-op for such a DB.
func NewFromDatabase(database *mongo.Database) *DB {
	return &DB{
		users:    database.Collection(usersCollection),
		snippets: database.Collection(snippetsCollection),
	}
}

// EnsureIndexes creates the unique index on users.username. Creating an
// index that already exists with the same keys and options succeeds.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongodb: creating username index: %w", err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.users.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client opened by New.
func (db *DB) Close() error {
	if db.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}
