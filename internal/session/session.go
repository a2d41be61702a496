// Package session binds a browser to a signed-in username for a fixed
// lifetime.
//
// A Session lives server-side in a Store. The browser only holds a signed
// cookie naming the session id (see Cookies). Request handling turns the
// cookie into an Identity, which is passed explicitly into every workflow
// call; nothing in the workflows reads ambient session state.
package session

import (
	"context"
	"errors"
	"time"
)

// GuestName is shown for visitors without a session. Registration refuses it
// as a username.
const GuestName = "Guest"

// DefaultTTL is the absolute lifetime of a session.
const DefaultTTL = 15 * time.Minute

// ErrNoSession is returned by Store.Get for ids that are unknown or expired.
var ErrNoSession = errors.New("session: no such session")

// Session is a server-side login record.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the identity this session grants.
func (s *Session) Identity() Identity {
	return Identity{Username: s.Username, ExpiresAt: s.ExpiresAt, SessionID: s.ID}
}

// Identity is who a request acts as. The zero value is a guest.
type Identity struct {
	Username  string
	ExpiresAt time.Time
	SessionID string
}

// Guest returns the anonymous identity.
func Guest() Identity { return Identity{} }

// IsGuest reports whether no user is signed in.
func (i Identity) IsGuest() bool { return i.Username == "" }

// DisplayName is the username, or GuestName for anonymous visitors.
func (i Identity) DisplayName() string {
	if i.IsGuest() {
		return GuestName
	}
	return i.Username
}

// Store persists sessions.
//
// Get returns ErrNoSession when the id is unknown or the session expired.
// Destroy of an unknown id succeeds.
type Store interface {
	Create(ctx context.Context, username string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Destroy(ctx context.Context, id string) error
}
