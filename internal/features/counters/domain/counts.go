package domain

// Counts are the storefront badge counts shown in the header.
type Counts struct {
	// Cart is the number of units in the cart.
	Cart int `json:"cart"`
	// Favorites is the number of favorite items.
	Favorites int `json:"favorites"`
}
