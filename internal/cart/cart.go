package cart

// The persisted cart is a map of productID -> quantity, at most one line
// per product. Prices are never stored; the view joins live catalog data
// so the customer always sees current prices.

// ViewItem is a cart line enriched with current product data.
type ViewItem struct {
	ProductID     int     `json:"productId"`
	ProductName   string  `json:"productName"`
	Thumbnail     string  `json:"thumbnail,omitempty"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Subtotal      float64 `json:"subtotal"`
	InStock       bool    `json:"inStock"`
	StockQuantity int     `json:"stockQuantity"`
}

// View is the fully priced cart returned to the client.
type View struct {
	UserID    int        `json:"userId"`
	Items     []ViewItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
}

// Summary is the lightweight count/total pair for the header badge.
type Summary struct {
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}
