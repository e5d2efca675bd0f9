package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
)

type paymentIntentWire struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent asks the backend for a payment intent covering the
// given order. The returned client secret is single-use: once a confirmation
// attempt consumes it, retrying payment requires a new order and intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, orderID int64) (*types.PaymentIntent, error) {
	payload := struct {
		OrderID int64 `json:"order_id"`
	}{OrderID: orderID}
	var wire paymentIntentWire
	if err := c.do(ctx, http.MethodPost, "/payments/create-payment-intent/", payload, &wire); err != nil {
		return nil, err
	}
	if wire.ClientSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeRequestRejected, "payment intent missing client secret")
	}
	return &types.PaymentIntent{OrderID: orderID, ClientSecret: wire.ClientSecret}, nil
}

// RecordPaymentConfirmation tells the backend a payment intent succeeded so
// it can mark the order paid.
func (c *Client) RecordPaymentConfirmation(ctx context.Context, orderID int64, paymentIntentID string) error {
	payload := struct {
		PaymentIntentID string `json:"payment_intent_id"`
		OrderID         int64  `json:"order_id"`
	}{PaymentIntentID: paymentIntentID, OrderID: orderID}
	return c.do(ctx, http.MethodPost, "/payments/confirm-payment/", payload, nil)
}
