package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/cache"
	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/features/payment/domain"

	"go.uber.org/zap"
)

// sessionKeyPrefix namespaces payment session keys in the cache.
const sessionKeyPrefix = "sportmag.payment.session."

// CacheSessionStore implements the SessionStore port on the Cache port.
// All operations are best-effort: storage failures are logged and swallowed
// because the backend's payment record is always re-fetchable.
type CacheSessionStore struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCacheSessionStore creates a new CacheSessionStore.
func NewCacheSessionStore(c cache.Cache, ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("session-store"),
	}
}

func sessionKey(paymentID int) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, paymentID)
}

// Save persists a stored session keyed by its payment ID.
func (s *CacheSessionStore) Save(ctx context.Context, session domain.StoredSession) {
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Warn("Unable to serialize payment session",
			zap.Int("payment_id", session.PaymentID),
			zap.Error(err),
		)
		return
	}

	if err := s.cache.Set(ctx, sessionKey(session.PaymentID), data, s.ttl); err != nil {
		s.logger.Warn("Unable to persist payment session",
			zap.Int("payment_id", session.PaymentID),
			zap.Error(err),
		)
	}
}

// Load restores a stored session by payment ID. Returns nil when absent or unreadable.
func (s *CacheSessionStore) Load(ctx context.Context, paymentID int) *domain.StoredSession {
	data, err := s.cache.Get(ctx, sessionKey(paymentID))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn("Unable to restore payment session",
				zap.Int("payment_id", paymentID),
				zap.Error(err),
			)
		}
		return nil
	}

	var session domain.StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("Corrupt payment session in store",
			zap.Int("payment_id", paymentID),
			zap.Error(err),
		)
		return nil
	}

	return &session
}

// MarkOpened records the first redirect to the external payment URL.
// Subsequent calls keep the original timestamp.
func (s *CacheSessionStore) MarkOpened(ctx context.Context, paymentID int, atUnixMilli int64) {
	session := s.Load(ctx, paymentID)
	if session == nil {
		return
	}
	if session.OpenedAt != 0 {
		return
	}

	session.OpenedAt = atUnixMilli
	s.Save(ctx, *session)
}

// Delete removes a stored session.
func (s *CacheSessionStore) Delete(ctx context.Context, paymentID int) {
	if err := s.cache.Delete(ctx, sessionKey(paymentID)); err != nil {
		s.logger.Warn("Unable to delete payment session",
			zap.Int("payment_id", paymentID),
			zap.Error(err),
		)
	}
}
