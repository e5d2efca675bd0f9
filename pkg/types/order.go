package types

import "time"

// Order statuses as the backend reports them.
const (
	OrderStatusPending = "pending"
)

// OrderDraft is the payload submitted to create an order. Once the backend
// assigns an id the draft is never resubmitted or mutated; payment steps
// reference the order by id only.
type OrderDraft struct {
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
	Status          string `json:"status"`
	PaymentStatus   bool   `json:"payment_status"`
	TotalPrice      int64  `json:"total_price"`
	ShippingPrice   int64  `json:"shipping_price"`
}

// OrderItem is a line on a placed order.
type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ColorName   string `json:"color_name"`
	SizeName    string `json:"size_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	ImageRef    string `json:"image_ref,omitempty"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   bool        `json:"payment_status"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingPrice   int64       `json:"shipping_price"`
	TotalPrice      int64       `json:"total_price"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items"`
}

// PaymentIntent binds a single-use client secret to one order. A terminal
// confirmation failure burns the secret; retrying requires a new order and
// intent pair.
type PaymentIntent struct {
	OrderID      int64  `json:"order_id"`
	ClientSecret string `json:"client_secret"`
}
