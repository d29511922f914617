package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checkout-orchestrator/internal/core/logger"
	cartdomain "checkout-orchestrator/internal/features/cart/domain"
	cartports "checkout-orchestrator/internal/features/cart/ports"
	"checkout-orchestrator/internal/features/counters/domain"

	"go.uber.org/zap"
)

// Store caches badge counts per user with lazy refresh and explicit
// invalidation. Counts are fetched on first access and reused until they
// expire or a mutation invalidates them.
type Store struct {
	cart      cartports.CartProvider
	favorites cartports.FavoritesProvider
	ttl       time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	counts    domain.Counts
	fetchedAt time.Time
}

// NewStore creates a Store that keeps counts for ttl before refetching.
func NewStore(cart cartports.CartProvider, favorites cartports.FavoritesProvider, ttl time.Duration) *Store {
	return &Store{
		cart:      cart,
		favorites: favorites,
		ttl:       ttl,
		logger:    logger.Named("counters"),
		entries:   make(map[string]entry),
	}
}

// Counts returns the badge counts for the bearer token's user, refreshing
// from the backend when the cached value is absent or expired.
func (s *Store) Counts(ctx context.Context, token string) (domain.Counts, error) {
	s.mu.Lock()
	cached, ok := s.entries[token]
	s.mu.Unlock()

	if ok && time.Since(cached.fetchedAt) < s.ttl {
		return cached.counts, nil
	}

	counts, err := s.fetch(ctx, token)
	if err != nil {
		return domain.Counts{}, err
	}

	s.mu.Lock()
	s.entries[token] = entry{counts: counts, fetchedAt: time.Now()}
	s.mu.Unlock()

	return counts, nil
}

// Invalidate drops the cached counts for a user so the next read refetches.
// Called after any cart or favorites mutation.
func (s *Store) Invalidate(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}

func (s *Store) fetch(ctx context.Context, token string) (domain.Counts, error) {
	items, err := s.cart.GetCart(ctx, token)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("failed to count cart: %w", err)
	}

	cartCount := cartdomain.Snapshot{Items: items}.TotalQuantity()

	favoritesCount, err := s.favorites.CountFavorites(ctx, token)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("failed to count favorites: %w", err)
	}

	s.logger.Debug("Badge counts refreshed",
		zap.Int("cart", cartCount),
		zap.Int("favorites", favoritesCount),
	)

	return domain.Counts{Cart: cartCount, Favorites: favoritesCount}, nil
}
