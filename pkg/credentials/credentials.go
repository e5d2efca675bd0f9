// Package credentials abstracts where the backend bearer credential lives.
// The cores only ever ask "is there a credential" and "forget it"; storage
// mechanics belong to the embedding application.
package credentials

import "sync"

// Provider exposes the bearer credential sent to the storefront backend.
type Provider interface {
	// Credential returns the current bearer token, or ok=false when the
	// caller is unauthenticated.
	Credential() (token string, ok bool)
	// Clear drops the stored credential. Called when the backend reports
	// the credential expired (HTTP 401).
	Clear()
}

// Memory is a mutex-guarded in-memory Provider. It is the default for tests
// and for request-scoped wiring in the HTTP gateway.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a Memory provider seeded with the given token. An empty
// token means unauthenticated.
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Credential() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}
