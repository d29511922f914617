package ports

import (
	"context"

	"checkout-orchestrator/internal/features/payment/domain"
)

// PaymentProvider defines the interface for the external payment provider.
// This is a Secondary Port (Driven Port).
type PaymentProvider interface {
	// CreateSession initiates a payment session for the given order.
	CreateSession(ctx context.Context, token string, orderID int) (domain.Session, error)

	// GetStatus polls the current payment status by payment ID.
	GetStatus(ctx context.Context, token string, paymentID int) (domain.StatusResult, error)
}

// SessionStore persists payment sessions between requests. Implementations
// are best-effort: writes and reads may fail without affecting correctness,
// the backend's payment record is always re-fetchable.
type SessionStore interface {
	// Save persists a stored session keyed by its payment ID.
	Save(ctx context.Context, session domain.StoredSession)

	// Load restores a stored session by payment ID. Returns nil when absent
	// or unreadable.
	Load(ctx context.Context, paymentID int) *domain.StoredSession

	// MarkOpened records the first redirect to the external payment URL.
	MarkOpened(ctx context.Context, paymentID int, atUnixMilli int64)

	// Delete removes a stored session.
	Delete(ctx context.Context, paymentID int)
}
