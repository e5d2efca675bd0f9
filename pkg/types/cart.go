package types

// LineKey is the identity tuple for a cart line. A cart never holds two lines
// with the same key; a matching add increments the existing line instead.
type LineKey struct {
	ProductID int64 `json:"product_id"`
	ColorID   int64 `json:"color_id"`
	SizeID    int64 `json:"size_id"`
}

// CartLineItem is the canonical, fully normalized cart line. All wire-shape
// variance (string prices, object images) is resolved before one of these
// exists. Amounts are minor currency units.
type CartLineItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	ImageRef  string `json:"image_ref"`
	ColorID   int64  `json:"color_id"`
	ColorName string `json:"color_name"`
	ColorHex  string `json:"color_hex"`
	SizeID    int64  `json:"size_id"`
	SizeName  string `json:"size_name"`
	Quantity  int64  `json:"quantity"`
}

// Key returns the line's identity tuple.
func (i CartLineItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, ColorID: i.ColorID, SizeID: i.SizeID}
}

// AddItemInput is the payload for an add-to-cart mutation.
type AddItemInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	ColorID   int64  `json:"color_id" validate:"required,gt=0"`
	SizeID    int64  `json:"size_id" validate:"required,gt=0"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Name      string `json:"name,omitempty"`
}

// Key returns the identity tuple the input would land on.
func (a AddItemInput) Key() LineKey {
	return LineKey{ProductID: a.ProductID, ColorID: a.ColorID, SizeID: a.SizeID}
}
