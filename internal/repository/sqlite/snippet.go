package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB stops implementing repository.SnippetRepository, this line fails to
// compile instead of the mismatch surfacing at the call site in server.go.
var _ repository.SnippetRepository = (*DB)(nil)

// AddSnippet inserts a new snippet. The snippet's ID and timestamps are set
// in place, so the caller sees the stored values.
//
// PARAMETERIZED QUERIES (the ? placeholders):
// Values are always passed as arguments, never concatenated into the SQL.
func (db *DB) AddSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, content, creator, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Content,
		snippet.Creator,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// ListSnippets returns every snippet in insertion order.
//
// defer rows.Close() returns the connection to the pool even if scanning
// fails halfway, and rows.Err() catches errors raised during iteration.
func (db *DB) ListSnippets(ctx context.Context) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, creator, created_at, updated_at
		 FROM snippets
		 ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Content, &s.Creator,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// FindSnippet retrieves a single snippet by its ID.
// sql.ErrNoRows is translated to apperror.ErrNotFound.
func (db *DB) FindSnippet(ctx context.Context, id string) (*model.Snippet, error) {
	var snippet model.Snippet

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, content, creator, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&snippet.ID,
		&snippet.Title,
		&snippet.Content,
		&snippet.Creator,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &snippet, nil
}

// ChangeContent replaces a snippet's content. Title and creator are never
// touched. An unknown id updates zero rows and is not an error.
func (db *DB) ChangeContent(ctx context.Context, id, content string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET content = ?, updated_at = ?
		 WHERE id = ?`,
		content,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", id, err)
	}
	return nil
}

// DeleteSnippet removes a snippet by its ID. An unknown id is not an error.
func (db *DB) DeleteSnippet(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}
	return nil
}
