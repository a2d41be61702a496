package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "snippet-share"

// ErrInvalidToken covers every reason a session token is rejected: bad
// signature, wrong algorithm, wrong issuer, expiry, missing subject.
var ErrInvalidToken = errors.New("auth: invalid session token")

// TokenService signs and verifies the session cookie value.
//
// The cookie carries a JWT whose "sub" claim is the session id and whose
// "exp" matches the session's expiry. The signature stops a client from
// guessing or forging session ids; the session store stays the authority on
// whether a session is still alive.
type TokenService struct {
	secret []byte
}

// NewTokenService returns a TokenService signing with secret, which must be
// at least 16 characters.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Sign returns an HS256 JWT for sessionID that expires at expiresAt.
func (s *TokenService) Sign(sessionID string, expiresAt time.Time) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session id it carries.
//
// jwt.WithValidMethods pins HS256, which rules out "alg: none" and
// algorithm-confusion tokens.
func (s *TokenService) Parse(token string) (string, error) {
	var c jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
