package types

// ProductColor is a color variant of a product.
type ProductColor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// ProductSize is a size variant of a product.
type ProductSize struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SizeType string `json:"size_type,omitempty"`
}

// Product is a catalog item with its variants and normalized image URLs.
type Product struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Price       int64          `json:"price"`
	Images      []string       `json:"images"`
	Colors      []ProductColor `json:"colors"`
	Sizes       []ProductSize  `json:"sizes"`
	InStock     bool           `json:"in_stock"`
}
