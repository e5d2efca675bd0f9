package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
	"github.com/go-playground/validator/v10"
)

type mutatorBackend interface {
	AddItem(ctx context.Context, input types.AddItemInput) ([]types.CartLineItem, error)
	UpdateItemQuantity(ctx context.Context, lineItemID, quantity int64) ([]types.CartLineItem, error)
	RemoveItem(ctx context.Context, lineItemID int64) ([]types.CartLineItem, error)
	ClearCart(ctx context.Context) ([]types.CartLineItem, error)
}

// Mutator is the cart mutation surface. Gateway implements it directly;
// RetryGateway wraps it with bounded retries on transient network failures.
type Mutator interface {
	AddItem(ctx context.Context, input types.AddItemInput) (Snapshot, error)
	UpdateQuantity(ctx context.Context, lineItemID, quantity int64) (Snapshot, error)
	RemoveItem(ctx context.Context, lineItemID int64) (Snapshot, error)
	Clear(ctx context.Context) (Snapshot, error)
}

// Gateway funnels every cart mutation through one place so each logical line
// has at most one request in flight and every success updates the store
// wholesale. Exactly one network call is made per accepted operation.
type Gateway struct {
	backend  mutatorBackend
	store    *Store
	creds    credentials.Provider
	logg     *logger.Logger
	validate *validator.Validate
	inflight *inflightTable
}

// NewGateway builds a cart mutation gateway.
func NewGateway(backend mutatorBackend, store *Store, creds credentials.Provider, logg *logger.Logger) (*Gateway, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend mutator required")
	}
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Gateway{
		backend:  backend,
		store:    store,
		creds:    creds,
		logg:     logg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		inflight: newInflightTable(),
	}, nil
}

func (g *Gateway) requireAuth() error {
	if _, ok := g.creds.Credential(); !ok {
		return pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to modify the cart")
	}
	return nil
}

// AddItem adds a product variant to the cart. Two adds of the same
// (product, color, size) key never race: the second is rejected while the
// first is in flight, and once both land the backend folds them into a
// single line.
func (g *Gateway) AddItem(ctx context.Context, input types.AddItemInput) (Snapshot, error) {
	if err := g.requireAuth(); err != nil {
		return g.store.Snapshot(), err
	}
	if input.Quantity <= 0 {
		return g.store.Snapshot(), pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive").
			WithDetails(map[string]any{"quantity": input.Quantity})
	}
	if err := g.validate.Struct(input); err != nil {
		return g.store.Snapshot(), pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid add-to-cart input")
	}

	release, err := g.inflight.acquire(addKey(input.Key()))
	if err != nil {
		return g.store.Snapshot(), err
	}
	defer release()

	ctx = g.logg.WithFields(ctx, map[string]any{
		"product_id": input.ProductID,
		"color_id":   input.ColorID,
		"size_id":    input.SizeID,
	})
	items, err := g.backend.AddItem(ctx, input)
	if err != nil {
		g.logg.Warn(ctx, "add to cart failed")
		return g.store.recordError(err), err
	}
	g.logg.Debug(ctx, "cart item added")
	return g.store.adopt(items), nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (g *Gateway) UpdateQuantity(ctx context.Context, lineItemID, quantity int64) (Snapshot, error) {
	if err := g.requireAuth(); err != nil {
		return g.store.Snapshot(), err
	}
	if quantity <= 0 {
		return g.store.Snapshot(), pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive").
			WithDetails(map[string]any{"quantity": quantity})
	}

	release, err := g.inflight.acquire(lineKey(lineItemID))
	if err != nil {
		return g.store.Snapshot(), err
	}
	defer release()

	ctx = g.logg.WithLineItemID(ctx, lineItemID)
	items, err := g.backend.UpdateItemQuantity(ctx, lineItemID, quantity)
	if err != nil {
		g.logg.Warn(ctx, "cart quantity update failed")
		return g.store.recordError(err), err
	}
	g.logg.Debug(ctx, "cart quantity updated")
	return g.store.adopt(items), nil
}

// RemoveItem deletes a cart line.
func (g *Gateway) RemoveItem(ctx context.Context, lineItemID int64) (Snapshot, error) {
	if err := g.requireAuth(); err != nil {
		return g.store.Snapshot(), err
	}

	release, err := g.inflight.acquire(lineKey(lineItemID))
	if err != nil {
		return g.store.Snapshot(), err
	}
	defer release()

	ctx = g.logg.WithLineItemID(ctx, lineItemID)
	items, err := g.backend.RemoveItem(ctx, lineItemID)
	if err != nil {
		g.logg.Warn(ctx, "cart item removal failed")
		return g.store.recordError(err), err
	}
	g.logg.Debug(ctx, "cart item removed")
	return g.store.adopt(items), nil
}

// Clear empties the cart. It is exclusive: it is rejected while any line
// operation or another clear is in flight, and line operations are rejected
// while it runs.
func (g *Gateway) Clear(ctx context.Context) (Snapshot, error) {
	if err := g.requireAuth(); err != nil {
		return g.store.Snapshot(), err
	}

	release, err := g.inflight.acquireExclusive()
	if err != nil {
		return g.store.Snapshot(), err
	}
	defer release()

	items, err := g.backend.ClearCart(ctx)
	if err != nil {
		g.logg.Warn(ctx, "cart clear failed")
		return g.store.recordError(err), err
	}
	g.logg.Info(ctx, "cart cleared")
	return g.store.adopt(items), nil
}
