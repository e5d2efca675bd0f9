package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/aurelis-storefront/pkg/money"
	"github.com/angelmondragon/aurelis-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// FlexPrice decodes an amount the backend serializes inconsistently, as a
// JSON number ("59.98") or a numeric string ("\"59.98\""), into minor
// currency units.
type FlexPrice int64

func (p *FlexPrice) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = 0
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("price: %w", err)
		}
	}
	amount, err := money.ParseMinorUnits(text)
	if err != nil {
		return fmt.Errorf("price %q: %w", text, err)
	}
	*p = FlexPrice(amount)
	return nil
}

// FlexImage decodes an image reference the backend sends either as a plain
// string or as an object with one of several URL-bearing keys.
type FlexImage string

func (i *FlexImage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("image: %w", err)
		}
		*i = FlexImage(text)
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	for _, key := range []string{"image", "url", "image_url", "src"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var text string
		if json.Unmarshal(raw, &text) == nil && text != "" {
			*i = FlexImage(text)
			return nil
		}
	}
	*i = ""
	return nil
}

// flexTime tolerates the handful of timestamp layouts Django emits.
type flexTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if text == "" {
		*t = flexTime(time.Time{})
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized layout", text)
}

func (t flexTime) Time() time.Time { return time.Time(t) }

// majorUnits renders a minor-unit amount as the decimal number the backend's
// order serializer expects.
func majorUnits(amountMinorUnits int64) float64 {
	return decimal.New(amountMinorUnits, -2).InexactFloat64()
}

type colorWire struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	HexValue string `json:"hex_value"`
}

type sizeWire struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SizeType string `json:"size_type"`
}

type cartItemWire struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     FlexPrice `json:"price"`
	Image     FlexImage `json:"image"`
	Color     colorWire `json:"color"`
	Size      sizeWire  `json:"size"`
	Quantity  int64     `json:"quantity"`
}

type cartWire struct {
	ID        int64          `json:"id"`
	Items     []cartItemWire `json:"items"`
	Total     FlexPrice      `json:"total"`
	ItemCount int64          `json:"item_count"`
}

func (c *Client) normalizeCart(wire cartWire) []types.CartLineItem {
	lines := make([]types.CartLineItem, 0, len(wire.Items))
	for _, item := range wire.Items {
		lines = append(lines, types.CartLineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: int64(item.Price),
			ImageRef:  c.images.Resolve(string(item.Image)),
			ColorID:   item.Color.ID,
			ColorName: item.Color.Name,
			ColorHex:  item.Color.HexValue,
			SizeID:    item.Size.ID,
			SizeName:  item.Size.Name,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

type orderItemWire struct {
	ID          int64     `json:"id"`
	Product     int64     `json:"product"`
	ProductName string    `json:"product_name"`
	Color       colorWire `json:"color"`
	Size        sizeWire  `json:"size"`
	Quantity    int64     `json:"quantity"`
	Price       FlexPrice `json:"price"`
	Image       FlexImage `json:"image"`
}

type orderWire struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   bool            `json:"payment_status"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingPrice   FlexPrice       `json:"shipping_price"`
	TotalPrice      FlexPrice       `json:"total_price"`
	CreatedAt       flexTime        `json:"created_at"`
	UpdatedAt       flexTime        `json:"updated_at"`
	Items           []orderItemWire `json:"items"`
}

func (c *Client) normalizeOrder(wire orderWire) types.Order {
	items := make([]types.OrderItem, 0, len(wire.Items))
	for _, item := range wire.Items {
		items = append(items, types.OrderItem{
			ID:          item.ID,
			ProductID:   item.Product,
			ProductName: item.ProductName,
			ColorName:   item.Color.Name,
			SizeName:    item.Size.Name,
			Quantity:    item.Quantity,
			UnitPrice:   int64(item.Price),
			ImageRef:    c.images.Resolve(string(item.Image)),
		})
	}
	return types.Order{
		ID:              wire.ID,
		Status:          wire.Status,
		PaymentMethod:   wire.PaymentMethod,
		PaymentStatus:   wire.PaymentStatus,
		ShippingAddress: wire.ShippingAddress,
		ShippingPrice:   int64(wire.ShippingPrice),
		TotalPrice:      int64(wire.TotalPrice),
		CreatedAt:       wire.CreatedAt.Time(),
		UpdatedAt:       wire.UpdatedAt.Time(),
		Items:           items,
	}
}

type productWire struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Price       FlexPrice   `json:"price"`
	Image       FlexImage   `json:"image"`
	Images      []FlexImage `json:"images"`
	Colors      []colorWire `json:"colors"`
	Sizes       []sizeWire  `json:"sizes"`
	InStock     *bool       `json:"in_stock"`
}

func (c *Client) normalizeProduct(wire productWire) types.Product {
	images := make([]string, 0, len(wire.Images)+1)
	if wire.Image != "" {
		images = append(images, c.images.Resolve(string(wire.Image)))
	}
	for _, img := range wire.Images {
		if img == "" {
			continue
		}
		images = append(images, c.images.Resolve(string(img)))
	}
	if len(images) == 0 {
		images = append(images, c.images.Resolve(""))
	}

	colors := make([]types.ProductColor, 0, len(wire.Colors))
	for _, color := range wire.Colors {
		colors = append(colors, types.ProductColor{ID: color.ID, Name: color.Name, Hex: color.HexValue})
	}
	sizes := make([]types.ProductSize, 0, len(wire.Sizes))
	for _, size := range wire.Sizes {
		sizes = append(sizes, types.ProductSize{ID: size.ID, Name: size.Name, SizeType: size.SizeType})
	}

	inStock := true
	if wire.InStock != nil {
		inStock = *wire.InStock
	}
	return types.Product{
		ID:          wire.ID,
		Name:        wire.Name,
		Description: wire.Description,
		Category:    wire.Category,
		Price:       int64(wire.Price),
		Images:      images,
		Colors:      colors,
		Sizes:       sizes,
		InStock:     inStock,
	}
}
