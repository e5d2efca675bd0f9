package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type productPageWire struct {
	Count   int64         `json:"count"`
	Results []productWire `json:"results"`
}

// ListProducts returns catalog products matching the given query filters.
// The catalog is public; no credential is required.
func (c *Client) ListProducts(ctx context.Context, filters map[string]string) ([]types.Product, error) {
	path := "/products/"
	if len(filters) > 0 {
		query := url.Values{}
		for key, value := range filters {
			query.Set(key, value)
		}
		path += "?" + query.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var wires []productWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		var page productPageWire
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeRequestRejected, err, "decode products response")
		}
		wires = page.Results
	}

	products := make([]types.Product, 0, len(wires))
	for _, wire := range wires {
		products = append(products, c.normalizeProduct(wire))
	}
	return products, nil
}

// GetProduct returns one product by id.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*types.Product, error) {
	var wire productWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/", productID), nil, &wire); err != nil {
		return nil, err
	}
	product := c.normalizeProduct(wire)
	return &product, nil
}
