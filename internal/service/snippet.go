package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
	"github.com/sakif/snippet-share/internal/session"
)

// SnippetService creates, edits, deletes and lists snippets.
//
// Every mutation returns the refreshed full listing, which is what the
// dashboard renders next.
type SnippetService struct {
	repo   repository.SnippetRepository
	policy Policy
	logger *slog.Logger
}

// NewSnippetService returns a SnippetService. A nil policy means
// CreatorPolicy with no admins.
func NewSnippetService(repo repository.SnippetRepository, policy Policy, logger *slog.Logger) *SnippetService {
	if policy == nil {
		policy = NewCreatorPolicy()
	}
	return &SnippetService{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// Create stores a snippet owned by caller. Guests are refused.
func (s *SnippetService) Create(ctx context.Context, title, content string, caller session.Identity) ([]model.Snippet, error) {
	if caller.IsGuest() {
		return nil, apperror.Forbidden("You must be logged in to create a snippet")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("snippetName", "A snippet needs a title")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("snippetContent", "A snippet needs some content")
	}

	snippet := &model.Snippet{
		Title:   title,
		Content: content,
		Creator: caller.Username,
	}
	if err := s.repo.AddSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("creator", caller.Username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("creator", snippet.Creator),
	)
	return s.List(ctx)
}

// Edit replaces the content of snippet id. Title and creator never change.
func (s *SnippetService) Edit(ctx context.Context, id, content string, caller session.Identity) ([]model.Snippet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("snippetContent", "A snippet needs some content")
	}

	snippet, err := s.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if snippet != nil {
		if err := s.repo.ChangeContent(ctx, id, content); err != nil {
			s.logger.Error("failed to edit snippet",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("editing snippet: %w", err)
		}
		s.logger.Info("snippet edited", slog.String("id", id), slog.String("by", caller.DisplayName()))
	}

	return s.List(ctx)
}

// Delete removes snippet id. Deleting an id that does not exist is not an
// error.
func (s *SnippetService) Delete(ctx context.Context, id string, caller session.Identity) ([]model.Snippet, error) {
	snippet, err := s.authorize(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if snippet != nil {
		if err := s.repo.DeleteSnippet(ctx, id); err != nil {
			s.logger.Error("failed to delete snippet",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("deleting snippet: %w", err)
		}
		s.logger.Info("snippet deleted", slog.String("id", id), slog.String("by", caller.DisplayName()))
	}

	return s.List(ctx)
}

// List returns every snippet. It does not depend on who is asking.
func (s *SnippetService) List(ctx context.Context) ([]model.Snippet, error) {
	snippets, err := s.repo.ListSnippets(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Get returns a single snippet, or apperror.ErrNotFound.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.Snippet, error) {
	snippet, err := s.repo.FindSnippet(ctx, strings.TrimSpace(id))
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to find snippet",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("finding snippet: %w", err)
		}
		return nil, err
	}
	return snippet, nil
}

// authorize loads snippet id and asks the policy whether caller may change
// it. A nil snippet with a nil error means the id does not exist.
func (s *SnippetService) authorize(ctx context.Context, id string, caller session.Identity) (*model.Snippet, error) {
	snippet, err := s.repo.FindSnippet(ctx, id)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to find snippet",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("finding snippet: %w", err)
		}
		snippet = nil
	}

	if err := s.policy.Authorize(caller, snippet); err != nil {
		s.logger.Warn("snippet change refused",
			slog.String("id", id),
			slog.String("by", caller.DisplayName()),
		)
		return nil, err
	}
	return snippet, nil
}
