package catalog

import (
	"context"
	"io"
	"testing"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type stubFetcher struct {
	listFn func(ctx context.Context, filters map[string]string) ([]types.Product, error)
	getFn  func(ctx context.Context, productID int64) (*types.Product, error)
}

func (s *stubFetcher) ListProducts(ctx context.Context, filters map[string]string) ([]types.Product, error) {
	return s.listFn(ctx, filters)
}

func (s *stubFetcher) GetProduct(ctx context.Context, productID int64) (*types.Product, error) {
	return s.getFn(ctx, productID)
}

func newTestService(t *testing.T, fetcher *stubFetcher) Service {
	t.Helper()
	svc, err := NewService(fetcher, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestListFoldsCategorySlug(t *testing.T) {
	var gotFilters map[string]string
	fetcher := &stubFetcher{listFn: func(_ context.Context, filters map[string]string) ([]types.Product, error) {
		gotFilters = filters
		return nil, nil
	}}
	svc := newTestService(t, fetcher)

	if _, err := svc.List(context.Background(), map[string]string{"category__slug": "Running"}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gotFilters["category"] != "running" {
		t.Fatalf("category filter = %q, want %q", gotFilters["category"], "running")
	}
	if _, ok := gotFilters["category__slug"]; ok {
		t.Fatal("category__slug should be folded away")
	}
}

func TestListDoesNotMutateCallerFilters(t *testing.T) {
	fetcher := &stubFetcher{listFn: func(_ context.Context, filters map[string]string) ([]types.Product, error) {
		return nil, nil
	}}
	svc := newTestService(t, fetcher)

	filters := map[string]string{"category__slug": "Running"}
	if _, err := svc.List(context.Background(), filters); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if _, ok := filters["category"]; ok {
		t.Fatal("caller's filter map must not be mutated")
	}
}

func TestFeaturedAppliesFilter(t *testing.T) {
	var gotFilters map[string]string
	fetcher := &stubFetcher{listFn: func(_ context.Context, filters map[string]string) ([]types.Product, error) {
		gotFilters = filters
		return []types.Product{{ID: 1, Name: "Performance Tee"}}, nil
	}}
	svc := newTestService(t, fetcher)

	products, err := svc.Featured(context.Background())
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if gotFilters["is_featured"] != "true" {
		t.Fatalf("expected is_featured filter, got %v", gotFilters)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
}

func TestGetValidatesProductID(t *testing.T) {
	fetcher := &stubFetcher{getFn: func(context.Context, int64) (*types.Product, error) {
		t.Fatal("invalid id must not hit the backend")
		return nil, nil
	}}
	svc := newTestService(t, fetcher)

	if _, err := svc.Get(context.Background(), -1); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
