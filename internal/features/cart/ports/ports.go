package ports

import (
	"context"

	"checkout-orchestrator/internal/features/cart/domain"
)

// CartProvider defines the interface for reading the user's cart from the
// commerce backend. This is a Secondary Port (Driven Port).
type CartProvider interface {
	// GetCart retrieves the current cart lines for the bearer token's user.
	GetCart(ctx context.Context, token string) ([]domain.CartItem, error)
}

// FavoritesProvider defines the interface for reading the user's favorites count.
type FavoritesProvider interface {
	// CountFavorites returns the number of favorite items for the bearer token's user.
	CountFavorites(ctx context.Context, token string) (int, error)
}
