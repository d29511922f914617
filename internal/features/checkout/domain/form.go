package domain

import deliverydomain "checkout-orchestrator/internal/features/delivery/domain"

// DeliveryType selects between store pickup and carrier delivery.
type DeliveryType string

const (
	// DeliveryTypePickup means the customer collects the order from the store.
	DeliveryTypePickup DeliveryType = "pickup"
	// DeliveryTypeDelivery means the carrier ships the order.
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// DeliveryOption selects where the carrier hands over a shipped order.
type DeliveryOption string

const (
	// OptionDoor delivers to the customer's door.
	OptionDoor DeliveryOption = "door"
	// OptionPickupPoint delivers to a carrier pickup point.
	OptionPickupPoint DeliveryOption = "pickup_point"
)

// PaymentType selects how the order is paid.
type PaymentType string

const (
	// PaymentOnline pays through the external payment provider.
	PaymentOnline PaymentType = "online"
	// PaymentCashOnDelivery pays on receipt.
	PaymentCashOnDelivery PaymentType = "cash_on_delivery"
)

// Customer is the buyer's contact data.
type Customer struct {
	// Name is the buyer's name.
	Name string `json:"name"`
	// Phone is the buyer's phone number, free-form user input.
	Phone string `json:"phone"`
	// Email is the buyer's email address.
	Email string `json:"email"`
}

// SelectedPvz is the carrier pickup point chosen for a pickup_point delivery.
type SelectedPvz struct {
	// Code is the carrier pickup point code.
	Code string `json:"code"`
	// Address is the pickup point address.
	Address string `json:"address"`
}

// ShippingAddress is a tagged union: a store pickup address or a carrier
// delivery address. SelectedPvz is only meaningful when DeliveryOption is
// pickup_point.
type ShippingAddress struct {
	// Type mirrors the delivery type this address belongs to.
	Type DeliveryType `json:"type"`
	// PickupAddress is the store address when Type is pickup.
	PickupAddress string `json:"pickupAddress,omitempty"`
	// DeliveryAddress is the destination when Type is delivery.
	DeliveryAddress deliverydomain.Address `json:"deliveryAddress,omitempty"`
	// DeliveryOption picks door or pickup_point when Type is delivery.
	DeliveryOption DeliveryOption `json:"deliveryOption,omitempty"`
	// SelectedPvz is the chosen pickup point when DeliveryOption is pickup_point.
	SelectedPvz *SelectedPvz `json:"selectedPvz,omitempty"`
}

// Delivery is the delivery section of the checkout form.
type Delivery struct {
	// Type selects pickup or delivery.
	Type DeliveryType `json:"type"`
	// Address is the shipping address for the selected type.
	Address ShippingAddress `json:"address"`
	// Cost is the calculated delivery cost, zero until calculated.
	Cost float64 `json:"deliveryCost,omitempty"`
	// Date is the estimated delivery date (YYYY-MM-DD), if calculated.
	Date string `json:"deliveryDate,omitempty"`
	// Time is the human-readable delivery window, if calculated.
	Time string `json:"deliveryTime,omitempty"`
}

// Payment is the payment section of the checkout form.
type Payment struct {
	// Type selects online or cash_on_delivery.
	Type PaymentType `json:"type"`
	// Provider names the online payment provider, if any.
	Provider string `json:"provider,omitempty"`
	// CashOnDeliveryMethod is how a cash_on_delivery order is paid on receipt.
	CashOnDeliveryMethod string `json:"cashOnDeliveryMethod,omitempty"`
}

// Agreements are the mandatory checkout consents.
type Agreements struct {
	// PublicOffer is the public offer terms consent.
	PublicOffer bool `json:"publicOffer"`
	// PersonalData is the personal data processing consent.
	PersonalData bool `json:"personalData"`
}

// Form is the complete checkout form as submitted by the storefront.
type Form struct {
	Customer   Customer   `json:"customer"`
	Delivery   Delivery   `json:"delivery"`
	Payment    Payment    `json:"payment"`
	Agreements Agreements `json:"agreements"`
	// Notes is the optional order comment.
	Notes string `json:"notes,omitempty"`
}

// ShipmentKind derives the order-level delivery type sent to the backend:
// pickup, door or pvz.
func (f Form) ShipmentKind() string {
	if f.Delivery.Type != DeliveryTypeDelivery {
		return "pickup"
	}
	if f.Delivery.Address.DeliveryOption == OptionDoor {
		return "door"
	}
	return "pvz"
}
