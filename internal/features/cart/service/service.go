package service

import (
	"context"
	"fmt"

	"checkout-orchestrator/internal/features/cart/domain"
	"checkout-orchestrator/internal/features/cart/ports"
)

// CartService provides read-only cart snapshots for the checkout flow.
type CartService struct {
	provider ports.CartProvider
}

// NewCartService creates a new CartService.
func NewCartService(provider ports.CartProvider) *CartService {
	return &CartService{
		provider: provider,
	}
}

// Snapshot reads the current cart for the bearer token's user.
func (s *CartService) Snapshot(ctx context.Context, token string) (domain.Snapshot, error) {
	items, err := s.provider.GetCart(ctx, token)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read cart snapshot: %w", err)
	}

	return domain.Snapshot{Items: items}, nil
}
