package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/session"
)

// contextKey is unexported so only this package can set or read the
// identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// Session resolves the session cookie into a session.Identity and stores it
// in the request context. It never blocks a request: a missing, tampered or
// expired cookie, or an unreachable session store, yields a guest.
//
// A cookie naming a session the store no longer knows is cleared.
func Session(store session.Store, cookies *session.Cookies, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := session.Guest()

			if id, ok := cookies.Read(r); ok {
				sess, err := store.Get(r.Context(), id)
				switch {
				case err == nil:
					identity = sess.Identity()
				case errors.Is(err, session.ErrNoSession):
					cookies.Clear(w)
				default:
					logger.Warn("session lookup failed",
						slog.String("error", err.Error()),
					)
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity session.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity stored by Session, or a guest.
func IdentityFrom(ctx context.Context) session.Identity {
	identity, _ := ctx.Value(identityKey).(session.Identity)
	return identity
}
