package domain

// Product is the subset of catalog data the checkout flow needs.
type Product struct {
	// ID is the catalog identifier of the product.
	ID string `json:"id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// Price is the unit price held client-side since add-to-cart time.
	Price float64 `json:"price"`
}

// CartItem represents a single cart line with its product data.
type CartItem struct {
	// ID is the cart line identifier.
	ID int `json:"id"`
	// Product holds the product snapshot for this line.
	Product Product `json:"product"`
	// Quantity is the number of units in the cart.
	Quantity int `json:"quantity"`
}

// OrderItem is a cart line converted to the order submission shape.
// Price is the client-held price; the backend is expected to re-validate it.
type OrderItem struct {
	// ProductID is the catalog identifier of the product.
	ProductID string `json:"productId"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Price is the unit price at add-to-cart time.
	Price float64 `json:"price"`
}

// Snapshot is a read-only view of the cart taken at checkout time.
type Snapshot struct {
	// Items are the cart lines.
	Items []CartItem `json:"items"`
}

// OrderItems converts the snapshot lines to the order submission shape.
func (s Snapshot) OrderItems() []OrderItem {
	items := make([]OrderItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, OrderItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return items
}

// TotalQuantity returns the total number of units across all lines.
func (s Snapshot) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount returns the cart total using client-held prices.
func (s Snapshot) TotalAmount() float64 {
	total := 0.0
	for _, item := range s.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Empty reports whether the cart has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}
