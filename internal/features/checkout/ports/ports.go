package ports

import (
	"context"

	cartdomain "checkout-orchestrator/internal/features/cart/domain"
	"checkout-orchestrator/internal/features/checkout/domain"
	paymentdomain "checkout-orchestrator/internal/features/payment/domain"
)

// OrderCreator defines the interface for the backend order endpoints.
// This is a Secondary Port (Driven Port).
type OrderCreator interface {
	// CreateOrder submits a validated form with the cart lines. The
	// idempotency key lets the backend deduplicate retried submissions.
	CreateOrder(ctx context.Context, token string, form domain.Form, items []cartdomain.OrderItem, idempotencyKey string) (domain.Order, error)

	// GetOrder fetches an order by ID for status refresh.
	GetOrder(ctx context.Context, token string, orderID int) (domain.Order, error)
}

// CartSnapshotter provides the cart snapshot an order is built from.
type CartSnapshotter interface {
	Snapshot(ctx context.Context, token string) (cartdomain.Snapshot, error)
}

// PaymentStarter initiates an online payment session for a created order.
type PaymentStarter interface {
	CreateSession(ctx context.Context, token string, orderID int, orderNumber string, totalAmount float64) (paymentdomain.Session, error)
}
