package cart

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
	"github.com/sethvargo/go-retry"
)

// RetryGateway decorates a Mutator with bounded exponential backoff. Only
// transport-level failures are retried; a server that answered, even with an
// error, already applied or rejected the mutation and must not see it again.
// AddItem is never retried: a timed-out add may have landed, and resubmitting
// it would fold into the same line and double the quantity. Setting an
// absolute quantity, removing a line, and clearing the cart are idempotent,
// so those resubmit safely.
type RetryGateway struct {
	inner       Mutator
	maxAttempts uint64
	baseDelay   time.Duration
}

// NewRetryGateway wraps inner. maxRetries is the number of re-attempts after
// the first try; baseDelay seeds the exponential backoff.
func NewRetryGateway(inner Mutator, maxRetries uint64, baseDelay time.Duration) (*RetryGateway, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner mutator required")
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	return &RetryGateway{inner: inner, maxAttempts: maxRetries, baseDelay: baseDelay}, nil
}

func (r *RetryGateway) do(ctx context.Context, op func(context.Context) (Snapshot, error)) (Snapshot, error) {
	var snap Snapshot
	backoff := retry.WithMaxRetries(r.maxAttempts, retry.NewExponential(r.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var opErr error
		snap, opErr = op(ctx)
		if pkgerrors.Is(opErr, pkgerrors.CodeNetwork) {
			return retry.RetryableError(opErr)
		}
		return opErr
	})
	return snap, err
}

// AddItem forwards a single attempt. The backend folds a duplicate
// (product, color, size) identity into the existing line by adding
// quantities, so an add whose response was lost cannot be told apart from
// one that never arrived; the caller refreshes and decides.
func (r *RetryGateway) AddItem(ctx context.Context, input types.AddItemInput) (Snapshot, error) {
	return r.inner.AddItem(ctx, input)
}

func (r *RetryGateway) UpdateQuantity(ctx context.Context, lineItemID, quantity int64) (Snapshot, error) {
	return r.do(ctx, func(ctx context.Context) (Snapshot, error) {
		return r.inner.UpdateQuantity(ctx, lineItemID, quantity)
	})
}

func (r *RetryGateway) RemoveItem(ctx context.Context, lineItemID int64) (Snapshot, error) {
	return r.do(ctx, func(ctx context.Context) (Snapshot, error) {
		return r.inner.RemoveItem(ctx, lineItemID)
	})
}

func (r *RetryGateway) Clear(ctx context.Context) (Snapshot, error) {
	return r.do(ctx, func(ctx context.Context) (Snapshot, error) {
		return r.inner.Clear(ctx)
	})
}
