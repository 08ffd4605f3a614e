// Package session owns the authentication token used for remote ledger calls.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// TokenStore persists the held token between process runs
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Guard holds the current token in explicit state. It never reads ambient
// storage on its own; a TokenStore has to be handed to it.
type Guard struct {
	mu    sync.Mutex
	token string
	store TokenStore
	now   func() time.Time
}

// Option configures a Guard
type Option func(*Guard)

// WithStore backs the guard with a persistent token store
func WithStore(store TokenStore) Option {
	return func(g *Guard) {
		g.store = store
	}
}

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// NewGuard creates a Guard, loading any token already present in the store
func NewGuard(opts ...Option) *Guard {
	g := &Guard{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	if g.store != nil {
		token, err := g.store.Load()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load stored token")
		} else {
			g.token = token
		}
	}
	return g
}

// CurrentToken returns the held token, or false if there is none.
// A JWT whose exp claim has passed is dropped and reported as absent.
func (g *Guard) CurrentToken() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token == "" {
		return "", false
	}
	if expired(g.token, g.now()) {
		log.Debug().Msg("Held token expired, invalidating")
		g.invalidateLocked()
		return "", false
	}
	return g.token, true
}

// Set replaces the held token, typically after a successful login
func (g *Guard) Set(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = token
	if g.store != nil {
		return g.store.Save(token)
	}
	return nil
}

// Invalidate clears the held token and its stored copy
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidateLocked()
}

func (g *Guard) invalidateLocked() {
	g.token = ""
	if g.store != nil {
		if err := g.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear stored token")
		}
	}
}

// expired reports whether token is a JWT past its exp claim.
// Opaque tokens and JWTs without exp never expire locally; the server decides.
func expired(token string, now time.Time) bool {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return false
	}
	var claims jwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return false
	}
	if claims.Expiry == nil {
		return false
	}
	return !now.Before(claims.Expiry.Time())
}
