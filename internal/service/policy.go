package service

import (
	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/session"
)

// Policy decides who may edit or delete a snippet. snippet is nil when the
// id does not exist; the mutation is then skipped, but the policy can still
// refuse the caller.
type Policy interface {
	Authorize(caller session.Identity, snippet *model.Snippet) error
}

// OpenPolicy lets any caller, signed in or not, change any snippet.
type OpenPolicy struct{}

func (OpenPolicy) Authorize(session.Identity, *model.Snippet) error { return nil }

// CreatorPolicy lets signed-in users change their own snippets, and admins
// change any snippet.
type CreatorPolicy struct {
	admins map[string]struct{}
}

// NewCreatorPolicy returns a CreatorPolicy with the given admin usernames.
func NewCreatorPolicy(admins ...string) CreatorPolicy {
	p := CreatorPolicy{admins: make(map[string]struct{}, len(admins))}
	for _, a := range admins {
		p.admins[a] = struct{}{}
	}
	return p
}

func (p CreatorPolicy) Authorize(caller session.Identity, snippet *model.Snippet) error {
	if caller.IsGuest() {
		return apperror.Forbidden("You must be logged in to change a snippet")
	}
	if snippet == nil {
		return nil
	}
	if snippet.Creator == caller.Username {
		return nil
	}
	if _, ok := p.admins[caller.Username]; ok {
		return nil
	}
	return apperror.Forbidden("Only the creator of a snippet can change it")
}
