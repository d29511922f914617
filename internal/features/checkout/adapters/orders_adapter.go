package adapters

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"checkout-orchestrator/internal/core/commerce"
	cartdomain "checkout-orchestrator/internal/features/cart/domain"
	"checkout-orchestrator/internal/features/checkout/domain"
	deliverydomain "checkout-orchestrator/internal/features/delivery/domain"
)

// OrdersAdapter implements the OrderCreator port against the commerce
// backend's order endpoints.
type OrdersAdapter struct {
	client *commerce.Client
}

// NewOrdersAdapter creates a new OrdersAdapter.
func NewOrdersAdapter(baseURL string, timeout time.Duration) *OrdersAdapter {
	return &OrdersAdapter{
		client: commerce.NewClient(baseURL, timeout),
	}
}

// orderRequest is the wire shape of an order submission.
type orderRequest struct {
	Items           []cartdomain.OrderItem `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentProvider string                 `json:"paymentProvider,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CustomerData    domain.Customer        `json:"customerData"`
	DeliveryType    string                 `json:"deliveryType"`

	// Carrier fields, present only when the carrier ships the order.
	CdekDeliveryCost float64 `json:"cdekDeliveryCost,omitempty"`
	CdekTariffCode   int     `json:"cdekTariffCode,omitempty"`
	CdekPvzCode      string  `json:"cdekPvzCode,omitempty"`
	CdekPvzAddress   string  `json:"cdekPvzAddress,omitempty"`
}

// orderResponse is the wire shape of a created or fetched order.
// TotalAmount is untyped because the backend serializes decimal totals as
// strings.
type orderResponse struct {
	ID              int         `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	Status          string      `json:"status"`
	TotalAmount     interface{} `json:"totalAmount"`
	PaymentMethod   string      `json:"paymentMethod"`
	PaymentProvider string      `json:"paymentProvider"`
}

func (r orderResponse) toDomain() domain.Order {
	return domain.Order{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		Status:          domain.OrderStatus(r.Status),
		TotalAmount:     parseAmount(r.TotalAmount),
		PaymentMethod:   r.PaymentMethod,
		PaymentProvider: r.PaymentProvider,
	}
}

func parseAmount(v interface{}) float64 {
	switch amount := v.(type) {
	case float64:
		return amount
	case string:
		parsed, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// CreateOrder submits the order to the backend. The idempotency key is sent
// as a header so a retried submission does not create a duplicate order.
func (a *OrdersAdapter) CreateOrder(ctx context.Context, token string, form domain.Form, items []cartdomain.OrderItem, idempotencyKey string) (domain.Order, error) {
	req := orderRequest{
		Items:           items,
		ShippingAddress: form.Delivery.Address,
		PaymentMethod:   string(form.Payment.Type),
		PaymentProvider: form.Payment.Provider,
		Notes:           form.Notes,
		CustomerData:    form.Customer,
		DeliveryType:    form.ShipmentKind(),
	}

	if req.DeliveryType != "pickup" && form.Delivery.Cost > 0 {
		req.CdekDeliveryCost = form.Delivery.Cost
		req.CdekTariffCode = deliverydomain.TariffDoor
		if req.DeliveryType == "pvz" {
			req.CdekTariffCode = deliverydomain.TariffPickupPoint
			if pvz := form.Delivery.Address.SelectedPvz; pvz != nil {
				req.CdekPvzCode = pvz.Code
				req.CdekPvzAddress = pvz.Address
			}
		}
	}

	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	var resp orderResponse
	if err := a.client.PostWithHeaders(ctx, "/api/orders", token, req, headers, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	return resp.toDomain(), nil
}

// GetOrder fetches an order by ID.
func (a *OrdersAdapter) GetOrder(ctx context.Context, token string, orderID int) (domain.Order, error) {
	var resp orderResponse
	path := fmt.Sprintf("/api/orders/%d", orderID)

	if err := a.client.Get(ctx, path, token, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return resp.toDomain(), nil
}
