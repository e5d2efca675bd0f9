// Package session hosts per-credential service stacks for the HTTP gateway.
// The cart store and checkout orchestrator are stateful per user, so each
// bearer credential gets its own wired instance, kept alive between requests
// and evicted after a period of inactivity.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/aurelis-storefront/internal/cart"
	"github.com/angelmondragon/aurelis-storefront/internal/checkout"
	"github.com/angelmondragon/aurelis-storefront/internal/orders"
	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
)

// Session bundles the per-user service stack.
type Session struct {
	Creds    *credentials.Memory
	Store    *cart.Store
	Cart     cart.Mutator
	Orders   orders.Service
	Checkout *checkout.Orchestrator

	lastSeen time.Time
}

// Factory builds a fresh session stack around the given bearer token. An
// empty token builds a guest stack whose operations fail fast without
// network traffic.
type Factory func(token string) (*Session, error)

// Manager caches sessions by credential and evicts idle ones.
type Manager struct {
	factory Factory
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds a session manager. ttl bounds how long an idle session
// survives between requests.
func NewManager(factory Factory, ttl time.Duration) (*Manager, error) {
	if factory == nil {
		return nil, fmt.Errorf("session factory required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		factory:  factory,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}, nil
}

// Acquire returns the session for the given token, building it on first use.
// Guest requests (empty token) always get a fresh throwaway session so
// anonymous callers never share state.
func (m *Manager) Acquire(token string) (*Session, error) {
	if token == "" {
		return m.factory("")
	}

	key := sessionKey(token)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)

	if sess, ok := m.sessions[key]; ok {
		sess.lastSeen = now
		return sess, nil
	}

	sess, err := m.factory(token)
	if err != nil {
		return nil, err
	}
	sess.lastSeen = now
	m.sessions[key] = sess
	return sess, nil
}

// Len reports how many sessions are currently cached.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLocked(now time.Time) {
	for key, sess := range m.sessions {
		if now.Sub(sess.lastSeen) > m.ttl {
			delete(m.sessions, key)
		}
	}
}

// Tokens never appear as map keys in clear text.
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
