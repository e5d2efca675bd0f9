package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type orderPageWire struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []orderWire `json:"results"`
}

// ListOrders returns the user's order history, newest first. The backend
// serves either a bare array or a DRF-paginated page; both decode here.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &raw); err != nil {
		return nil, err
	}

	var wires []orderWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		var page orderPageWire
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeRequestRejected, err, "decode orders response")
		}
		wires = page.Results
	}

	orders := make([]types.Order, 0, len(wires))
	for _, wire := range wires {
		orders = append(orders, c.normalizeOrder(wire))
	}
	return orders, nil
}

// GetOrder returns one order by id.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*types.Order, error) {
	var wire orderWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", orderID), nil, &wire); err != nil {
		return nil, err
	}
	order := c.normalizeOrder(wire)
	return &order, nil
}

type orderDraftWire struct {
	PaymentMethod   string  `json:"payment_method"`
	ShippingAddress string  `json:"shipping_address"`
	BillingAddress  string  `json:"billing_address"`
	Status          string  `json:"status"`
	PaymentStatus   bool    `json:"payment_status"`
	TotalPrice      float64 `json:"total_price"`
	ShippingPrice   float64 `json:"shipping_price"`
}

type orderCreatedWire struct {
	ID int64 `json:"id"`
}

// CreateOrder submits an order draft and returns the id the backend assigned.
// The draft is never resubmitted under the same id; a retried checkout
// attempt creates a fresh order.
func (c *Client) CreateOrder(ctx context.Context, draft types.OrderDraft) (int64, error) {
	payload := orderDraftWire{
		PaymentMethod:   draft.PaymentMethod,
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,
		Status:          draft.Status,
		PaymentStatus:   draft.PaymentStatus,
		TotalPrice:      majorUnits(draft.TotalPrice),
		ShippingPrice:   majorUnits(draft.ShippingPrice),
	}
	var created orderCreatedWire
	if err := c.do(ctx, http.MethodPost, "/orders/", payload, &created); err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeRequestRejected, "order created without an id")
	}
	return created.ID, nil
}
