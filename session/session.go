// Package session holds the admin credential: an opaque bearer token and the
// username it was issued for. Expiry is the backend's business; a stale token
// simply makes the next mutating call fail.
package session

import (
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Keys under which the credential is persisted.
const (
	TokenKey    = "admin_token"
	UsernameKey = "admin_user"
)

// Session is the only way to read or change the stored credential.
type Session struct {
	store Store
}

// New wraps a store; nil means a fresh in-memory store.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// SetToken stores the bearer token returned by a successful login
func (s *Session) SetToken(token string) error {
	if token == "" {
		return s.store.Delete(TokenKey)
	}
	return s.store.Set(TokenKey, token)
}

// Token returns the stored token, if any. Store failures read as "no token".
func (s *Session) Token() (string, bool) {
	token, ok, err := s.store.Get(TokenKey)
	if err != nil {
		log.Err(err).Msg("session: failed to read token")
		return "", false
	}
	return token, ok && token != ""
}

func (s *Session) SetUsername(username string) error {
	return s.store.Set(UsernameKey, username)
}

// Username returns the stored username or "" when unknown
func (s *Session) Username() string {
	username, _, err := s.store.Get(UsernameKey)
	if err != nil {
		log.Err(err).Msg("session: failed to read username")
		return ""
	}
	return username
}

// Clear removes both the token and the username
func (s *Session) Clear() error {
	if err := s.store.Delete(TokenKey); err != nil {
		return errors.Wrapf(err, "clear token")
	}
	if err := s.store.Delete(UsernameKey); err != nil {
		return errors.Wrapf(err, "clear username")
	}
	return nil
}

// IsAuthenticated is true iff a token is present
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// TokenSource exposes the stored token to oauth2-aware callers. The token is
// read on every call so a logout is seen immediately.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{s}
}

type tokenSource struct {
	s *Session
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token, ok := ts.s.Token()
	if !ok {
		return nil, errors.ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
