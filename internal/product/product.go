package product

// Product is the catalog entry and the source of truth for current price
// and availability. Carts and orders reference products by id; orders copy
// name/price into a snapshot only at checkout time.
type Product struct {
	ID            int     `json:"productId"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	IsActive      bool    `json:"isActive"`
	Thumbnail     string  `json:"thumbnail,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
