package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cartdomain "checkout-orchestrator/internal/features/cart/domain"
	"checkout-orchestrator/internal/features/checkout/domain"
	deliverydomain "checkout-orchestrator/internal/features/delivery/domain"
	paymentdomain "checkout-orchestrator/internal/features/payment/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitTimeout = time.Second
	pollTick    = 5 * time.Millisecond
)

// mockCart implements CartSnapshotter.
type mockCart struct {
	snapshot cartdomain.Snapshot
	err      error
}

func (m *mockCart) Snapshot(ctx context.Context, token string) (cartdomain.Snapshot, error) {
	if m.err != nil {
		return cartdomain.Snapshot{}, m.err
	}
	return m.snapshot, nil
}

// mockOrders implements OrderCreator and records the submission.
type mockOrders struct {
	order domain.Order
	err   error

	mu             sync.Mutex
	createCalls    int
	lastForm       domain.Form
	lastItems      []cartdomain.OrderItem
	idempotencyKey string
	release        chan struct{}
}

func (m *mockOrders) CreateOrder(ctx context.Context, token string, form domain.Form, items []cartdomain.OrderItem, idempotencyKey string) (domain.Order, error) {
	m.mu.Lock()
	m.createCalls++
	m.lastForm = form
	m.lastItems = items
	m.idempotencyKey = idempotencyKey
	release := m.release
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	if m.err != nil {
		return domain.Order{}, m.err
	}
	return m.order, nil
}

func (m *mockOrders) GetOrder(ctx context.Context, token string, orderID int) (domain.Order, error) {
	if m.err != nil {
		return domain.Order{}, m.err
	}
	return m.order, nil
}

// mockPayments implements PaymentStarter.
type mockPayments struct {
	result paymentdomain.Session
	err    error
	calls  atomic.Int32
}

func (m *mockPayments) CreateSession(ctx context.Context, token string, orderID int, orderNumber string, totalAmount float64) (paymentdomain.Session, error) {
	m.calls.Add(1)
	if m.err != nil {
		return paymentdomain.Session{}, m.err
	}
	return m.result, nil
}

func validForm(payment domain.PaymentType) domain.Form {
	return domain.Form{
		Customer: domain.Customer{Name: "Иван", Phone: "+7 (999) 123-45-67", Email: "ivan@example.com"},
		Delivery: domain.Delivery{
			Type: domain.DeliveryTypeDelivery,
			Address: domain.ShippingAddress{
				Type:            domain.DeliveryTypeDelivery,
				DeliveryAddress: deliverydomain.Address{City: "Москва", Street: "Ленина", House: "1"},
				DeliveryOption:  domain.OptionDoor,
			},
			Cost: 450,
		},
		Payment:    domain.Payment{Type: payment, Provider: "tochka"},
		Agreements: domain.Agreements{PublicOffer: true, PersonalData: true},
	}
}

func filledCart() cartdomain.Snapshot {
	return cartdomain.Snapshot{Items: []cartdomain.CartItem{
		{ID: 1, Product: cartdomain.Product{ID: "p-1", Name: "Гантели", Price: 1500}, Quantity: 2},
	}}
}

// TestOrchestrator_CashOnDelivery verifies a cash-on-delivery submission
// routes to the order page and never touches the payment provider.
func TestOrchestrator_CashOnDelivery(t *testing.T) {
	orders := &mockOrders{order: domain.Order{ID: 7, OrderNumber: "ORD-007", Status: domain.OrderPending}}
	payments := &mockPayments{}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, payments)

	result, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentCashOnDelivery))
	require.NoError(t, err)

	assert.Equal(t, 7, result.OrderID)
	assert.Equal(t, "/orders/7?status=pending", result.Route)
	assert.Zero(t, payments.calls.Load(), "payment provider must not be called for cash_on_delivery")
	assert.NotEmpty(t, orders.idempotencyKey)
}

// TestOrchestrator_Online verifies an online submission creates a payment
// session and routes to the payment page.
func TestOrchestrator_Online(t *testing.T) {
	orders := &mockOrders{order: domain.Order{ID: 7, OrderNumber: "ORD-007", Status: domain.OrderAwaitingPayment, TotalAmount: 3450}}
	payments := &mockPayments{result: paymentdomain.Session{PaymentID: 42, OrderID: 7}}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, payments)

	result, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentOnline))
	require.NoError(t, err)

	assert.Equal(t, 42, result.PaymentID)
	assert.Equal(t, "/checkout/payment?orderId=7&paymentId=42", result.Route)
	assert.Equal(t, int32(1), payments.calls.Load())
}

// TestOrchestrator_PaymentInitRecoverable verifies a payment session failure
// after order creation still surfaces the created order.
func TestOrchestrator_PaymentInitRecoverable(t *testing.T) {
	orders := &mockOrders{order: domain.Order{ID: 7, OrderNumber: "ORD-007", Status: domain.OrderAwaitingPayment}}
	payments := &mockPayments{err: errors.New("gateway unavailable")}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, payments)

	result, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentOnline))
	assert.ErrorIs(t, err, ErrPaymentInit)
	assert.Equal(t, 7, result.OrderID)
	assert.Equal(t, "/orders/7?status=awaiting_payment", result.Route)
}

// TestOrchestrator_InvalidForm verifies validation aborts before any call.
func TestOrchestrator_InvalidForm(t *testing.T) {
	orders := &mockOrders{}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, &mockPayments{})

	form := validForm(domain.PaymentOnline)
	form.Customer.Email = "not-an-email"
	form.Agreements.PublicOffer = false

	_, err := orchestrator.Submit(context.Background(), "jwt-1", form)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Неверный формат email", validationErr.Errors.Customer["email"])
	assert.Equal(t, "Необходимо согласие с условиями оферты", validationErr.Errors.Agreements["publicOffer"])
	assert.Zero(t, orders.createCalls)
}

// TestOrchestrator_EmptyCart verifies an empty cart aborts the submission.
func TestOrchestrator_EmptyCart(t *testing.T) {
	orders := &mockOrders{}
	orchestrator := NewOrchestrator(&mockCart{snapshot: cartdomain.Snapshot{}}, orders, &mockPayments{})

	_, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentCashOnDelivery))
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.createCalls)
}

// TestOrchestrator_DoubleSubmit verifies a second submission for the same
// token is rejected while the first is in flight.
func TestOrchestrator_DoubleSubmit(t *testing.T) {
	release := make(chan struct{})
	orders := &mockOrders{
		order:   domain.Order{ID: 7, OrderNumber: "ORD-007", Status: domain.OrderPending},
		release: release,
	}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, &mockPayments{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentCashOnDelivery))
		firstDone <- err
	}()

	// Wait until the first submission reaches order creation.
	assert.Eventually(t, func() bool {
		orders.mu.Lock()
		defer orders.mu.Unlock()
		return orders.createCalls == 1
	}, waitTimeout, pollTick)

	_, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentCashOnDelivery))
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-firstDone)
}

// TestOrchestrator_ItemsUseClientPrices verifies cart lines are converted with
// the client-held prices.
func TestOrchestrator_ItemsUseClientPrices(t *testing.T) {
	orders := &mockOrders{order: domain.Order{ID: 7, OrderNumber: "ORD-007", Status: domain.OrderPending}}
	orchestrator := NewOrchestrator(&mockCart{snapshot: filledCart()}, orders, &mockPayments{})

	_, err := orchestrator.Submit(context.Background(), "jwt-1", validForm(domain.PaymentCashOnDelivery))
	require.NoError(t, err)

	require.Len(t, orders.lastItems, 1)
	assert.Equal(t, cartdomain.OrderItem{ProductID: "p-1", Quantity: 2, Price: 1500}, orders.lastItems[0])
}
