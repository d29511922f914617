package adapters

import (
	"context"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/cart/domain"
)

// CommerceAdapter implements the CartProvider and FavoritesProvider ports
// against the commerce backend REST API.
type CommerceAdapter struct {
	client *commerce.Client
}

// NewCommerceAdapter creates a new CommerceAdapter.
func NewCommerceAdapter(baseURL string, timeout time.Duration) *CommerceAdapter {
	return &CommerceAdapter{
		client: commerce.NewClient(baseURL, timeout),
	}
}

// cartItemResponse is the wire shape of a cart line.
type cartItemResponse struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
	Product  struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"product"`
}

// favoriteResponse is the wire shape of a favorites entry.
type favoriteResponse struct {
	ID int `json:"id"`
}

// GetCart retrieves the current cart lines for the bearer token's user.
func (a *CommerceAdapter) GetCart(ctx context.Context, token string) ([]domain.CartItem, error) {
	var raw []cartItemResponse
	if err := a.client.Get(ctx, "/api/cart-items", token, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	items := make([]domain.CartItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, domain.CartItem{
			ID:       item.ID,
			Quantity: item.Quantity,
			Product: domain.Product{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: item.Product.Price,
			},
		})
	}

	return items, nil
}

// CountFavorites returns the number of favorite items for the bearer token's user.
func (a *CommerceAdapter) CountFavorites(ctx context.Context, token string) (int, error) {
	var raw []favoriteResponse
	if err := a.client.Get(ctx, "/api/favorites", token, &raw); err != nil {
		return 0, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return len(raw), nil
}
