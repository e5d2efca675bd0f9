package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

// FetchCart returns the authenticated user's full cart. The backend always
// responds with the complete cart, so the result is a wholesale snapshot.
func (c *Client) FetchCart(ctx context.Context) ([]types.CartLineItem, error) {
	var wire cartWire
	if err := c.do(ctx, http.MethodGet, "/cart/", nil, &wire); err != nil {
		return nil, err
	}
	return c.normalizeCart(wire), nil
}

// AddItem adds a product variant to the cart and returns the resulting cart.
// The backend folds duplicates of the same (product, color, size) into one
// line with a summed quantity.
func (c *Client) AddItem(ctx context.Context, input types.AddItemInput) ([]types.CartLineItem, error) {
	payload := struct {
		ProductID int64  `json:"product_id"`
		ColorID   int64  `json:"color_id"`
		SizeID    int64  `json:"size_id"`
		Quantity  int64  `json:"quantity"`
		Name      string `json:"name,omitempty"`
	}{
		ProductID: input.ProductID,
		ColorID:   input.ColorID,
		SizeID:    input.SizeID,
		Quantity:  input.Quantity,
		Name:      input.Name,
	}
	var wire cartWire
	if err := c.do(ctx, http.MethodPost, "/cart/items/", payload, &wire); err != nil {
		return nil, err
	}
	return c.normalizeCart(wire), nil
}

// UpdateItemQuantity sets the quantity of one cart line and returns the
// resulting cart.
func (c *Client) UpdateItemQuantity(ctx context.Context, lineItemID, quantity int64) ([]types.CartLineItem, error) {
	payload := struct {
		Quantity int64 `json:"quantity"`
	}{Quantity: quantity}
	var wire cartWire
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d/", lineItemID), payload, &wire); err != nil {
		return nil, err
	}
	return c.normalizeCart(wire), nil
}

// RemoveItem deletes one cart line and returns the resulting cart.
func (c *Client) RemoveItem(ctx context.Context, lineItemID int64) ([]types.CartLineItem, error) {
	var wire cartWire
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d/", lineItemID), nil, &wire); err != nil {
		return nil, err
	}
	return c.normalizeCart(wire), nil
}

// ClearCart empties the cart and returns the (empty) resulting cart.
func (c *Client) ClearCart(ctx context.Context) ([]types.CartLineItem, error) {
	var wire cartWire
	if err := c.do(ctx, http.MethodPost, "/cart/clear/", nil, &wire); err != nil {
		return nil, err
	}
	return c.normalizeCart(wire), nil
}
