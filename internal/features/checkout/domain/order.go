package domain

// OrderStatus is the backend-assigned order lifecycle status.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderPaid            OrderStatus = "paid"
	OrderPaymentFailed   OrderStatus = "payment_failed"
	OrderShipped         OrderStatus = "shipped"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

// Order is the server-created order entity. Immutable from this service's
// perspective except through status refresh.
type Order struct {
	// ID is the backend order identifier.
	ID int `json:"id"`
	// OrderNumber is the human-facing order number.
	OrderNumber string `json:"orderNumber"`
	// Status is the current order status.
	Status OrderStatus `json:"status"`
	// TotalAmount is the backend-computed order total.
	TotalAmount float64 `json:"totalAmount"`
	// PaymentMethod is the chosen payment type.
	PaymentMethod string `json:"paymentMethod,omitempty"`
	// PaymentProvider is the online payment provider, if any.
	PaymentProvider string `json:"paymentProvider,omitempty"`
}
