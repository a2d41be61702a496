package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/session"
)

// =========================================================================
// HAND-WRITTEN FAKES
// =========================================================================
//
// The fakes keep their data in memory and implement the same interfaces as
// the real stores, so the workflows run unchanged against them. Setting err
// makes every call fail, which simulates the store being down.

var errStoreDown = errors.New("store down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []model.User
	err   error

	// raceConflict makes AddUser report a unique-constraint violation even
	// though FindByUsername saw no such user.
	raceConflict bool
}

func (f *fakeUserRepo) AddUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.raceConflict {
		return apperror.Conflict("user", u.Username)
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperror.Conflict("user", u.Username)
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.User{}, f.users...), nil
}

type fakeSnippetRepo struct {
	mu       sync.Mutex
	snippets []model.Snippet
	nextID   int
	err      error
}

func (f *fakeSnippetRepo) AddSnippet(_ context.Context, s *model.Snippet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	s.ID = fmt.Sprintf("snip-%d", f.nextID)
	f.snippets = append(f.snippets, *s)
	return nil
}

func (f *fakeSnippetRepo) ListSnippets(context.Context) ([]model.Snippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Snippet{}, f.snippets...), nil
}

func (f *fakeSnippetRepo) FindSnippet(_ context.Context, id string) (*model.Snippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.snippets {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("snippet", id)
}

func (f *fakeSnippetRepo) ChangeContent(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.snippets {
		if f.snippets[i].ID == id {
			f.snippets[i].Content = content
		}
	}
	return nil
}

func (f *fakeSnippetRepo) DeleteSnippet(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.snippets {
		if f.snippets[i].ID == id {
			f.snippets = append(f.snippets[:i], f.snippets[i+1:]...)
			return nil
		}
	}
	return nil
}

// failingSessions refuses every operation.
type failingSessions struct{}

func (failingSessions) Create(context.Context, string) (*session.Session, error) {
	return nil, errStoreDown
}
func (failingSessions) Get(context.Context, string) (*session.Session, error) {
	return nil, errStoreDown
}
func (failingSessions) Destroy(context.Context, string) error { return errStoreDown }
