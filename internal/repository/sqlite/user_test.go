package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
)

func addTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "$2a$10$hash"}
	if err := db.AddUser(context.Background(), user); err != nil {
		t.Fatalf("failed to add test user: %v", err)
	}
	return user
}

func TestAddUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "alice", PasswordHash: "$2a$10$hash"}
	if err := db.AddUser(context.Background(), user); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("AddUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("AddUser() did not set user.CreatedAt")
	}
}

func TestAddUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	addTestUser(t, db, "alice")

	err := db.AddUser(context.Background(), &model.User{Username: "alice", PasswordHash: "other"})
	if err == nil {
		t.Fatal("AddUser() should have returned an error for a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("AddUser() error = %v, want ErrConflict", err)
	}

	users, _ := db.ListUsers(context.Background())
	if len(users) != 1 {
		t.Errorf("ListUsers() returned %d users, want 1", len(users))
	}
}

func TestFindByUsername(t *testing.T) {
	db := newTestDB(t)
	created := addTestUser(t, db, "alice")

	found, err := db.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", found.PasswordHash, created.PasswordHash)
	}
}

func TestFindByUsername_CaseSensitive(t *testing.T) {
	db := newTestDB(t)
	addTestUser(t, db, "alice")

	_, err := db.FindByUsername(context.Background(), "Alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByUsername(%q) error = %v, want ErrNotFound", "Alice", err)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.FindByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	addTestUser(t, db, "alice")
	addTestUser(t, db, "bob")

	users, err := db.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() returned %d users, want 2", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("ListUsers() order = [%s %s], want [alice bob]", users[0].Username, users[1].Username)
	}
}
