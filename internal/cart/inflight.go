package cart

import (
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

func addKey(key types.LineKey) string {
	return fmt.Sprintf("add:%d:%d:%d", key.ProductID, key.ColorID, key.SizeID)
}

func lineKey(lineItemID int64) string {
	return fmt.Sprintf("line:%d", lineItemID)
}

// inflightTable tracks which cart mutations are currently on the wire.
// Per-key operations run concurrently against distinct keys; an exclusive
// operation (clear) requires the table to be empty and blocks all others.
type inflightTable struct {
	mu        sync.Mutex
	keys      map[string]struct{}
	exclusive bool
}

func newInflightTable() *inflightTable {
	return &inflightTable{keys: make(map[string]struct{})}
}

func (t *inflightTable) acquire(key string) (release func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.exclusive {
		return nil, pkgerrors.New(pkgerrors.CodeOperationInProgress, "cart is being cleared").
			WithDetails(map[string]any{"key": key})
	}
	if _, busy := t.keys[key]; busy {
		return nil, pkgerrors.New(pkgerrors.CodeOperationInProgress, "an update for this item is already in flight").
			WithDetails(map[string]any{"key": key})
	}
	t.keys[key] = struct{}{}
	return func() {
		t.mu.Lock()
		delete(t.keys, key)
		t.mu.Unlock()
	}, nil
}

func (t *inflightTable) acquireExclusive() (release func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.exclusive {
		return nil, pkgerrors.New(pkgerrors.CodeOperationInProgress, "cart is already being cleared")
	}
	if len(t.keys) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOperationInProgress, "item updates are still in flight")
	}
	t.exclusive = true
	return func() {
		t.mu.Lock()
		t.exclusive = false
		t.mu.Unlock()
	}, nil
}
