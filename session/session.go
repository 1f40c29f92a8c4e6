// Package session issues, validates, and revokes time-bounded session tokens.
//
// Tokens are opaque 256-bit random strings; expiry is checked lazily on
// validation against an injectable clock, so no background sweep is needed
// for correctness. The persistent store runs one anyway for storage hygiene.
package session

import (
	"errors"
	"time"

	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/internal/util"
)

var (
	// ErrSessionNotFound is returned when the token is unknown or revoked.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the token exists but its expiry has passed.
	ErrSessionExpired = errors.New("session expired")
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// tokenBytes is the entropy carried by each token. 32 bytes comfortably
// clears the 128-bit minimum and makes collisions under concurrent
// issuance negligible.
const tokenBytes = 32

// Session binds an authenticated user to a token for a bounded time.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager owns the session lifecycle. Safe for concurrent use; per-token
// mutation serialization is delegated to the Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithTTL overrides the default session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock injects a clock, used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create issues a fresh session for the user. It always succeeds for a
// valid user unless the entropy source or the store fails.
func (m *Manager) Create(user *credstore.User) (Session, error) {
	token, err := util.RandomToken(tokenBytes)
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	s := Session{
		Token:     token,
		Username:  user.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Put(s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Validate returns the live session for the token. Expiry is checked here,
// on use; an expired session is removed and stays invalid permanently.
func (m *Manager) Validate(token string) (Session, error) {
	s, ok := m.store.Get(token)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if m.now().After(s.ExpiresAt) {
		m.store.Delete(token)
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

// Revoke invalidates the token. Revoking an unknown or already-revoked
// token is not an error.
func (m *Manager) Revoke(token string) {
	m.store.Delete(token)
}
