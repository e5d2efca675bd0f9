package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type stubLister struct {
	listFn func(ctx context.Context) ([]types.Order, error)
	getFn  func(ctx context.Context, orderID int64) (*types.Order, error)
	calls  int
}

func (s *stubLister) ListOrders(ctx context.Context) ([]types.Order, error) {
	s.calls++
	return s.listFn(ctx)
}

func (s *stubLister) GetOrder(ctx context.Context, orderID int64) (*types.Order, error) {
	s.calls++
	return s.getFn(ctx, orderID)
}

func newTestService(t *testing.T, lister *stubLister, creds credentials.Provider) Service {
	t.Helper()
	svc, err := NewService(lister, creds, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestHistoryRequiresAuth(t *testing.T) {
	lister := &stubLister{}
	svc := newTestService(t, lister, credentials.NewMemory(""))

	_, err := svc.History(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated) {
		t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
	}
	if lister.calls != 0 {
		t.Fatal("unauthenticated history must not hit the backend")
	}
}

func TestHistorySortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	lister := &stubLister{listFn: func(context.Context) ([]types.Order, error) {
		return []types.Order{
			{ID: 1, CreatedAt: base},
			{ID: 3, CreatedAt: base.Add(2 * time.Hour)},
			{ID: 2, CreatedAt: base.Add(time.Hour)},
		}, nil
	}}
	svc := newTestService(t, lister, credentials.NewMemory("tok"))

	orders, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if orders[0].ID != 3 || orders[1].ID != 2 || orders[2].ID != 1 {
		t.Fatalf("orders not sorted newest first: %v", []int64{orders[0].ID, orders[1].ID, orders[2].ID})
	}
}

func TestDetailValidatesOrderID(t *testing.T) {
	lister := &stubLister{}
	svc := newTestService(t, lister, credentials.NewMemory("tok"))

	if _, err := svc.Detail(context.Background(), 0); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if lister.calls != 0 {
		t.Fatal("invalid id must not hit the backend")
	}
}

func TestDetailPassesThroughBackendErrors(t *testing.T) {
	lister := &stubLister{getFn: func(context.Context, int64) (*types.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}}
	svc := newTestService(t, lister, credentials.NewMemory("tok"))

	if _, err := svc.Detail(context.Background(), 42); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
