package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/features/checkout/domain"
	"checkout-orchestrator/internal/features/checkout/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart is returned when a submission arrives with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitInFlight is returned when the same user submits again before
	// the previous submission finished.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrPaymentInit is returned when the order was created but the payment
	// session could not be started. The order exists; the caller can retry
	// payment from the order page.
	ErrPaymentInit = errors.New("payment session failed to start")
)

// ValidationError carries the structured form violations of a rejected
// submission.
type ValidationError struct {
	Errors domain.FormErrors
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "checkout form validation failed"
}

// Result is the outcome of a successful (or payment-recoverable) submission.
type Result struct {
	// OrderID is the created order's identifier.
	OrderID int `json:"orderId"`
	// OrderNumber is the human-facing order number.
	OrderNumber string `json:"orderNumber"`
	// PaymentID is the created payment session, zero for cash_on_delivery.
	PaymentID int `json:"paymentId,omitempty"`
	// Route is the storefront page to navigate to next.
	Route string `json:"route"`
}

// Orchestrator drives an order submission end to end: guard, validate, create
// the order, then branch on the payment type. Cash-on-delivery orders route
// straight to the order page and never touch the payment provider.
type Orchestrator struct {
	cart     ports.CartSnapshotter
	orders   ports.OrderCreator
	payments ports.PaymentStarter
	logger   *zap.Logger

	// inFlight holds one entry per token with an active submission.
	inFlight sync.Map
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cart ports.CartSnapshotter, orders ports.OrderCreator, payments ports.PaymentStarter) *Orchestrator {
	return &Orchestrator{
		cart:     cart,
		orders:   orders,
		payments: payments,
		logger:   logger.Named("checkout"),
	}
}

// Submit validates and submits the checkout form for the bearer token's user.
//
// When the payment session fails after the order was created, Submit returns
// both a Result pointing at the created order and ErrPaymentInit, so the
// caller can surface the order instead of pretending nothing happened.
func (o *Orchestrator) Submit(ctx context.Context, token string, form domain.Form) (Result, error) {
	if _, loaded := o.inFlight.LoadOrStore(token, struct{}{}); loaded {
		return Result{}, ErrSubmitInFlight
	}
	defer o.inFlight.Delete(token)

	if errs := form.Validate(); !errs.Empty() {
		return Result{}, &ValidationError{Errors: errs}
	}

	snapshot, err := o.cart.Snapshot(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read cart: %w", err)
	}
	if snapshot.Empty() {
		return Result{}, ErrEmptyCart
	}

	idempotencyKey := uuid.NewString()

	order, err := o.orders.CreateOrder(ctx, token, form, snapshot.OrderItems(), idempotencyKey)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create order: %w", err)
	}

	o.logger.Info("Order created",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_type", string(form.Payment.Type)),
		zap.Int("cart_units", snapshot.TotalQuantity()),
		zap.Float64("cart_total", snapshot.TotalAmount()),
	)

	if form.Payment.Type != domain.PaymentOnline {
		return Result{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Route:       orderRoute(order),
		}, nil
	}

	session, err := o.payments.CreateSession(ctx, token, order.ID, order.OrderNumber, order.TotalAmount)
	if err != nil {
		o.logger.Warn("Order created but payment session failed",
			zap.Int("order_id", order.ID),
			zap.Error(err),
		)
		return Result{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Route:       orderRoute(order),
		}, fmt.Errorf("%w: %v", ErrPaymentInit, err)
	}

	return Result{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		PaymentID:   session.PaymentID,
		Route:       fmt.Sprintf("/checkout/payment?orderId=%d&paymentId=%d", order.ID, session.PaymentID),
	}, nil
}

// OrderStatus fetches the current order state for the polled status refresh.
func (o *Orchestrator) OrderStatus(ctx context.Context, token string, orderID int) (domain.Order, error) {
	order, err := o.orders.GetOrder(ctx, token, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to refresh order status: %w", err)
	}
	return order, nil
}

func orderRoute(order domain.Order) string {
	return fmt.Sprintf("/orders/%d?status=%s", order.ID, order.Status)
}
