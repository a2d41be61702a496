package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/sakif/snippet-share/internal/auth"
)

// CookieName is the session cookie's name.
const CookieName = "snippets_session"

// Cookies reads and writes the session cookie. Its value is a token signed
// by auth.TokenService whose subject is the session id.
type Cookies struct {
	tokens *auth.TokenService
	secure bool
}

// NewCookies returns a cookie codec. secure sets the Secure attribute.
func NewCookies(tokens *auth.TokenService, secure bool) *Cookies {
	return &Cookies{tokens: tokens, secure: secure}
}

// Write sets the cookie for sess, expiring with it.
func (c *Cookies) Write(w http.ResponseWriter, sess *Session) error {
	value, err := c.tokens.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the session id carried by the request's cookie. A missing,
// tampered or expired cookie reports false.
func (c *Cookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}

	id, err := c.tokens.Parse(value)
	if err != nil {
		return "", false
	}
	return id, true
}

// Clear expires the cookie.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
