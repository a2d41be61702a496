// Package service contains the two workflows of the application:
// authentication (AuthService) and snippet management (SnippetService).
//
//	Handler (HTTP)  → parses forms, renders pages
//	Service         → validates, enforces rules, orchestrates
//	Repository      → reads/writes the store
//
// Services know nothing about HTTP. The caller's identity arrives as an
// explicit session.Identity argument, and failures come back as
// apperror values that the handler maps to pages and status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
	"github.com/sakif/snippet-share/internal/session"
)

// MinCredentialLength is the minimum length, in characters, of both the
// username and the password.
const MinCredentialLength = 3

// User-facing failure messages.
const (
	MsgRegisterTooShort  = "Register failed: Username and/or password too short!"
	MsgRegisterDuplicate = "Register failed: There already is a user with that username!"
	MsgLoginFailed       = "Login failed: Username and/or password incorrect!"
	MsgRegistered        = "You successfully created a user, please log in!"
)

// AuthService registers users, logs them in and out.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  session.Store
	logger    *slog.Logger
}

// NewAuthService wires the dependencies of the authentication workflow.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions session.Store,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// Register creates a user.
//
// Both credentials must be at least MinCredentialLength characters. The
// reserved name "Guest" and names already taken are rejected with the same
// duplicate error. The lookup here gives the friendly message in the common
// case; the store's unique constraint settles concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if utf8.RuneCountInString(username) < MinCredentialLength ||
		utf8.RuneCountInString(password) < MinCredentialLength {
		return apperror.ValidationFailed("username", MsgRegisterTooShort)
	}

	if username == session.GuestName {
		return apperror.Duplicate("username", MsgRegisterDuplicate)
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return apperror.Duplicate("username", MsgRegisterDuplicate)
	case !errors.Is(err, apperror.ErrNotFound):
		s.logger.Error("failed to look up user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("registering user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return err
		}
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("registering user: %w", err)
	}

	if err := s.users.AddUser(ctx, &model.User{Username: username, PasswordHash: hash}); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return apperror.Duplicate("username", MsgRegisterDuplicate)
		}
		s.logger.Error("failed to add user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Login checks the credentials and opens a session for the user.
//
// An unknown username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(MsgLoginFailed)
		}
		s.logger.Error("failed to look up user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("stored password hash unusable",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized(MsgLoginFailed)
	}

	sess, err := s.sessions.Create(ctx, user.Username)
	if err != nil {
		s.logger.Error("failed to create session",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))
	return sess, nil
}

// Logout destroys the session. It never fails; destruction errors are
// logged.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		s.logger.Warn("failed to destroy session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
