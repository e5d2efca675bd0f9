// Package catalog serves the public product catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type productFetcher interface {
	ListProducts(ctx context.Context, filters map[string]string) ([]types.Product, error)
	GetProduct(ctx context.Context, productID int64) (*types.Product, error)
}

// Service reads the product catalog from the backend.
type Service interface {
	List(ctx context.Context, filters map[string]string) ([]types.Product, error)
	Featured(ctx context.Context) ([]types.Product, error)
	Get(ctx context.Context, productID int64) (*types.Product, error)
}

type service struct {
	backend productFetcher
	logg    *logger.Logger
}

// NewService builds a catalog service.
func NewService(backend productFetcher, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("product fetcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{backend: backend, logg: logg}, nil
}

// List returns products matching the filters. A category__slug filter is
// folded into the plain lowercase category filter the backend understands.
func (s *service) List(ctx context.Context, filters map[string]string) ([]types.Product, error) {
	cleaned := make(map[string]string, len(filters))
	for key, value := range filters {
		cleaned[key] = value
	}
	if slug, ok := cleaned["category__slug"]; ok {
		cleaned["category"] = strings.ToLower(slug)
		delete(cleaned, "category__slug")
	}
	return s.backend.ListProducts(ctx, cleaned)
}

// Featured returns the featured subset of the catalog.
func (s *service) Featured(ctx context.Context) ([]types.Product, error) {
	return s.backend.ListProducts(ctx, map[string]string{"is_featured": "true"})
}

// Get returns one product by id.
func (s *service) Get(ctx context.Context, productID int64) (*types.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive").
			WithDetails(map[string]any{"product_id": productID})
	}
	return s.backend.GetProduct(ctx, productID)
}
