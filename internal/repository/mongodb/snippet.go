package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.SnippetRepository = (*DB)(nil)

type snippetDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Creator   string             `bson:"creator"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d snippetDoc) model() model.Snippet {
	return model.Snippet{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Creator:   d.Creator,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// now is truncated to BSON datetime precision so values read back compare
// equal to what was written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (db *DB) AddSnippet(ctx context.Context, snippet *model.Snippet) error {
	ts := now()
	doc := snippetDoc{
		ID:        primitive.NewObjectID(),
		Title:     snippet.Title,
		Content:   snippet.Content,
		Creator:   snippet.Creator,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if _, err := db.snippets.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: inserting snippet: %w", err)
	}

	snippet.ID = doc.ID.Hex()
	snippet.CreatedAt = ts
	snippet.UpdatedAt = ts
	return nil
}

func (db *DB) ListSnippets(ctx context.Context) ([]model.Snippet, error) {
	cursor, err := db.snippets.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing snippets: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []snippetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decoding snippets: %w", err)
	}

	snippets := make([]model.Snippet, 0, len(docs))
	for _, d := range docs {
		snippets = append(snippets, d.model())
	}
	return snippets, nil
}

// FindSnippet returns apperror.ErrNotFound both for ids that are not valid
// ObjectID hex strings and for ids with no matching document.
func (db *DB) FindSnippet(ctx context.Context, id string) (*model.Snippet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("snippet", id)
	}

	var doc snippetDoc
	err = db.snippets.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("mongodb: finding snippet %s: %w", id, err)
	}

	s := doc.model()
	return &s, nil
}

// ChangeContent sets content and updatedAt only. A malformed or unknown id
// matches nothing and is not an error.
func (db *DB) ChangeContent(ctx context.Context, id, content string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	_, err = db.snippets.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: now()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: updating snippet %s: %w", id, err)
	}
	return nil
}

func (db *DB) DeleteSnippet(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := db.snippets.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("mongodb: deleting snippet %s: %w", id, err)
	}
	return nil
}
