// Package cart holds the client-side cart state and the gateway that
// serializes mutations against the storefront backend. The backend owns the
// cart; everything here is a cached snapshot that is replaced wholesale on
// every successful round trip.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type fetcher interface {
	FetchCart(ctx context.Context) ([]types.CartLineItem, error)
}

// Snapshot is an immutable view of the cart at one point in time. ItemCount
// and Subtotal are always derived from Items, never stored independently.
type Snapshot struct {
	Items     []types.CartLineItem
	ItemCount int64
	Subtotal  int64
	UpdatedAt time.Time
	// LastError is the most recent refresh or mutation failure, nil after
	// any success. Stale items remain readable while it is set.
	LastError error
}

// Store caches the last known-good cart and fans out change notifications.
type Store struct {
	backend fetcher
	creds   credentials.Provider
	logg    *logger.Logger

	mu        sync.RWMutex
	items     []types.CartLineItem
	updatedAt time.Time
	lastErr   error

	subMu   sync.Mutex
	subs    map[int64]func(Snapshot)
	nextSub int64
}

// NewStore builds a cart store over the given backend fetcher.
func NewStore(backend fetcher, creds credentials.Provider, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend fetcher required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		backend: backend,
		creds:   creds,
		logg:    logg,
		subs:    make(map[int64]func(Snapshot)),
	}, nil
}

// Snapshot returns the current cart view. The returned item slice is a copy;
// callers may hold it as long as they like.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]types.CartLineItem, len(s.items))
	copy(items, s.items)

	var count, subtotal int64
	for _, item := range items {
		count += item.Quantity
		subtotal += item.UnitPrice * item.Quantity
	}
	return Snapshot{
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal,
		UpdatedAt: s.updatedAt,
		LastError: s.lastErr,
	}
}

// Refresh re-reads the cart from the backend. An unauthenticated caller gets
// an empty cart without any network traffic. On failure the previous items
// stay readable and the error is recorded on the snapshot; an expired
// credential clears the stored token (the HTTP client handles that) but the
// stale items are kept until the user signs in again.
func (s *Store) Refresh(ctx context.Context) (Snapshot, error) {
	if _, ok := s.creds.Credential(); !ok {
		return s.adopt(nil), nil
	}

	items, err := s.backend.FetchCart(ctx)
	if err != nil {
		s.logg.Warn(ctx, "cart refresh failed")
		return s.recordError(err), err
	}
	return s.adopt(items), nil
}

// Adopt replaces the cached cart wholesale with the authoritative state a
// successful backend round trip returned, and notifies subscribers.
func (s *Store) Adopt(items []types.CartLineItem) Snapshot {
	return s.adopt(items)
}

func (s *Store) adopt(items []types.CartLineItem) Snapshot {
	s.mu.Lock()
	s.items = items
	s.updatedAt = time.Now()
	s.lastErr = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) recordError(err error) Snapshot {
	s.mu.Lock()
	s.lastErr = err
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Subscribe registers a callback invoked after every snapshot change. The
// returned cancel func removes the subscription. Callbacks run synchronously
// on the mutating goroutine and must not call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	callbacks := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.subMu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}
}
