package repository

import (
	"context"

	"github.com/sakif/snippet-share/internal/model"
)

// UserRepository is the Credential Store.
//
// AddUser returns apperror.ErrConflict when the username is already taken.
// FindByUsername returns apperror.ErrNotFound when no such user exists.
type UserRepository interface {
	AddUser(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// SnippetRepository is the Snippet Store.
//
// ChangeContent and Delete are no-ops for ids that do not exist.
// FindSnippet returns apperror.ErrNotFound for unknown or malformed ids.
type SnippetRepository interface {
	AddSnippet(ctx context.Context, snippet *model.Snippet) error
	ListSnippets(ctx context.Context) ([]model.Snippet, error)
	FindSnippet(ctx context.Context, id string) (*model.Snippet, error)
	ChangeContent(ctx context.Context, id, content string) error
	DeleteSnippet(ctx context.Context, id string) error
}
