package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

func newTestGateway(t *testing.T, backend *stubBackend, creds credentials.Provider) (*Gateway, *Store) {
	t.Helper()
	store := newTestStore(t, backend, creds)
	gateway, err := NewGateway(backend, store, creds, cartTestLogger())
	if err != nil {
		t.Fatalf("NewGateway failed: %v", err)
	}
	return gateway, store
}

func addInput() types.AddItemInput {
	return types.AddItemInput{ProductID: 3, ColorID: 2, SizeID: 4, Quantity: 1}
}

func TestAddItemRequiresAuth(t *testing.T) {
	backend := &stubBackend{addFn: func(context.Context, types.AddItemInput) ([]types.CartLineItem, error) {
		t.Fatal("unauthenticated add must not reach the backend")
		return nil, nil
	}}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory(""))

	_, err := gateway.AddItem(context.Background(), addInput())
	if !pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated) {
		t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
	}
	if got := backend.calls.Load(); got != 0 {
		t.Fatalf("expected zero backend calls, got %d", got)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	backend := &stubBackend{}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	for _, quantity := range []int64{0, -1} {
		input := addInput()
		input.Quantity = quantity
		_, err := gateway.AddItem(context.Background(), input)
		if !pkgerrors.Is(err, pkgerrors.CodeInvalidQuantity) {
			t.Fatalf("quantity %d: expected INVALID_QUANTITY, got %v", quantity, err)
		}
	}
	if got := backend.calls.Load(); got != 0 {
		t.Fatalf("invalid input must not reach the backend, got %d calls", got)
	}
}

func TestAddItemAdoptsServerState(t *testing.T) {
	// The backend folds a repeated (product, color, size) into one line.
	backend := &stubBackend{addFn: func(_ context.Context, input types.AddItemInput) ([]types.CartLineItem, error) {
		return []types.CartLineItem{
			{ID: 11, ProductID: input.ProductID, ColorID: input.ColorID, SizeID: input.SizeID, UnitPrice: 2999, Quantity: 3},
		}, nil
	}}
	gateway, store := newTestGateway(t, backend, credentials.NewMemory("tok"))

	snap, err := gateway.AddItem(context.Background(), addInput())
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 3 {
		t.Fatalf("snapshot should mirror the server state, got %+v", snap.Items)
	}
	if store.Snapshot().ItemCount != 3 {
		t.Fatal("store should hold the adopted state")
	}
}

func TestAddItemSameKeySerialized(t *testing.T) {
	entered := make(chan struct{})
	releaseCh := make(chan struct{})
	backend := &stubBackend{addFn: func(context.Context, types.AddItemInput) ([]types.CartLineItem, error) {
		close(entered)
		<-releaseCh
		return []types.CartLineItem{{ID: 11, ProductID: 3, ColorID: 2, SizeID: 4, Quantity: 1}}, nil
	}}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = gateway.AddItem(context.Background(), addInput())
	}()

	<-entered
	_, secondErr := gateway.AddItem(context.Background(), addInput())
	if !pkgerrors.Is(secondErr, pkgerrors.CodeOperationInProgress) {
		t.Fatalf("expected OPERATION_IN_PROGRESS, got %v", secondErr)
	}

	close(releaseCh)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first add failed: %v", firstErr)
	}
	if got := backend.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one backend call, got %d", got)
	}
}

func TestAddItemDifferentKeysRunConcurrently(t *testing.T) {
	entered := make(chan struct{})
	releaseCh := make(chan struct{})
	backend := &stubBackend{addFn: func(_ context.Context, input types.AddItemInput) ([]types.CartLineItem, error) {
		if input.ProductID == 3 {
			close(entered)
			<-releaseCh
		}
		return nil, nil
	}}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.AddItem(context.Background(), addInput())
	}()

	<-entered
	other := types.AddItemInput{ProductID: 9, ColorID: 1, SizeID: 1, Quantity: 1}
	if _, err := gateway.AddItem(context.Background(), other); err != nil {
		t.Fatalf("distinct key should not be blocked: %v", err)
	}

	close(releaseCh)
	wg.Wait()
	if got := backend.calls.Load(); got != 2 {
		t.Fatalf("expected two backend calls, got %d", got)
	}
}

func TestUpdateQuantityGuardsPerLine(t *testing.T) {
	entered := make(chan struct{})
	releaseCh := make(chan struct{})
	backend := &stubBackend{updateFn: func(context.Context, int64, int64) ([]types.CartLineItem, error) {
		close(entered)
		<-releaseCh
		return nil, nil
	}, removeFn: func(context.Context, int64) ([]types.CartLineItem, error) {
		return nil, nil
	}}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.UpdateQuantity(context.Background(), 11, 5)
	}()

	<-entered
	// A remove for the same line contends with the in-flight update.
	_, err := gateway.RemoveItem(context.Background(), 11)
	if !pkgerrors.Is(err, pkgerrors.CodeOperationInProgress) {
		t.Fatalf("expected OPERATION_IN_PROGRESS, got %v", err)
	}

	close(releaseCh)
	wg.Wait()
}

func TestUpdateQuantityRejectsZero(t *testing.T) {
	backend := &stubBackend{}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	if _, err := gateway.UpdateQuantity(context.Background(), 11, 0); !pkgerrors.Is(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected INVALID_QUANTITY, got %v", err)
	}
}

func TestMutationFailurePreservesSnapshot(t *testing.T) {
	backend := &stubBackend{
		fetchFn: func(context.Context) ([]types.CartLineItem, error) { return sampleLines(), nil },
		updateFn: func(context.Context, int64, int64) ([]types.CartLineItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeRequestRejected, "insufficient stock")
		},
	}
	gateway, store := newTestGateway(t, backend, credentials.NewMemory("tok"))
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	snap, err := gateway.UpdateQuantity(context.Background(), 11, 5)
	if !pkgerrors.Is(err, pkgerrors.CodeRequestRejected) {
		t.Fatalf("expected REQUEST_REJECTED, got %v", err)
	}
	if len(snap.Items) != 2 {
		t.Fatal("rejected mutation must not change the cached items")
	}
	if snap.Items[0].Quantity != 2 {
		t.Fatal("quantities should be untouched after a rejection")
	}
}

func TestClearIsExclusive(t *testing.T) {
	entered := make(chan struct{})
	releaseCh := make(chan struct{})
	backend := &stubBackend{
		clearFn: func(context.Context) ([]types.CartLineItem, error) {
			close(entered)
			<-releaseCh
			return nil, nil
		},
		addFn: func(context.Context, types.AddItemInput) ([]types.CartLineItem, error) {
			return nil, nil
		},
	}
	gateway, _ := newTestGateway(t, backend, credentials.NewMemory("tok"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.Clear(context.Background())
	}()

	<-entered
	if _, err := gateway.AddItem(context.Background(), addInput()); !pkgerrors.Is(err, pkgerrors.CodeOperationInProgress) {
		t.Fatalf("add during clear: expected OPERATION_IN_PROGRESS, got %v", err)
	}
	if _, err := gateway.Clear(context.Background()); !pkgerrors.Is(err, pkgerrors.CodeOperationInProgress) {
		t.Fatalf("second clear: expected OPERATION_IN_PROGRESS, got %v", err)
	}

	close(releaseCh)
	wg.Wait()
}

func TestClearAdoptsEmptyCart(t *testing.T) {
	backend := &stubBackend{
		fetchFn: func(context.Context) ([]types.CartLineItem, error) { return sampleLines(), nil },
		clearFn: func(context.Context) ([]types.CartLineItem, error) { return nil, nil },
	}
	gateway, store := newTestGateway(t, backend, credentials.NewMemory("tok"))
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	snap, err := gateway.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if snap.ItemCount != 0 || len(snap.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap)
	}
}
