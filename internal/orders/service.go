// Package orders exposes the signed-in user's order history.
package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type orderLister interface {
	ListOrders(ctx context.Context) ([]types.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*types.Order, error)
}

// Service reads order history from the backend.
type Service interface {
	History(ctx context.Context) ([]types.Order, error)
	Detail(ctx context.Context, orderID int64) (*types.Order, error)
}

type service struct {
	backend orderLister
	creds   credentials.Provider
	logg    *logger.Logger
}

// NewService builds an order history service.
func NewService(backend orderLister, creds credentials.Provider, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("order lister required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{backend: backend, creds: creds, logg: logg}, nil
}

// History returns the user's orders newest first. An unauthenticated caller
// gets a fast rejection without any network traffic.
func (s *service) History(ctx context.Context) ([]types.Order, error) {
	if _, ok := s.creds.Credential(); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to view orders")
	}

	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		s.logg.Warn(ctx, "order history fetch failed")
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Detail returns one of the user's orders.
func (s *service) Detail(ctx context.Context, orderID int64) (*types.Order, error) {
	if _, ok := s.creds.Credential(); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to view orders")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive").
			WithDetails(map[string]any{"order_id": orderID})
	}

	ctx = s.logg.WithOrderID(ctx, orderID)
	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		s.logg.Warn(ctx, "order detail fetch failed")
		return nil, err
	}
	return order, nil
}
