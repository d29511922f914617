package domain

// Tariff codes used by the carrier: 139 delivers to the door, 138 to a pickup point.
const (
	TariffDoor        = 139
	TariffPickupPoint = 138
)

// Placeholder package attributes used for cost calculation. True product
// weight and dimensions are not modeled; each unit counts as a 1 kg box.
const (
	PackageWeightGrams = 1000
	PackageLengthCm    = 30
	PackageWidthCm     = 20
	PackageHeightCm    = 15
)

// Address is the postal address delivery cost is calculated for.
type Address struct {
	// City is the destination city name.
	City string `json:"city"`
	// Street is the street name.
	Street string `json:"street"`
	// House is the house number.
	House string `json:"house"`
	// Apartment is the optional apartment number.
	Apartment string `json:"apartment,omitempty"`
}

// Line is an order line used to derive carrier packages.
type Line struct {
	// ProductID is the catalog identifier of the product.
	ProductID string `json:"productId"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
	// Price is the unit price.
	Price float64 `json:"price"`
}

// Tariff is a carrier service level with cost and delivery window.
type Tariff struct {
	// Code is the carrier tariff code.
	Code int `json:"tariffCode"`
	// Name is the carrier tariff display name.
	Name string `json:"tariffName"`
	// Cost is the delivery cost for this tariff.
	Cost float64 `json:"cost"`
	// PeriodMin is the minimum delivery period in days.
	PeriodMin int `json:"periodMin"`
	// PeriodMax is the maximum delivery period in days.
	PeriodMax int `json:"periodMax"`
}

// Quote is the result of a delivery cost calculation.
type Quote struct {
	// Cost is the selected tariff's delivery cost.
	Cost float64 `json:"cost"`
	// DeliveryDate is the estimated delivery date (YYYY-MM-DD), empty when degraded.
	DeliveryDate string `json:"deliveryDate,omitempty"`
	// DeliveryTime is the human-readable delivery window (e.g., "2-4 дней").
	DeliveryTime string `json:"deliveryTime,omitempty"`
	// AvailableTariffs lists all tariffs the carrier returned.
	AvailableTariffs []Tariff `json:"availableTariffs,omitempty"`
	// Degraded is true when the carrier calculation failed and Cost is the
	// configured fallback. Callers must not treat a degraded quote as a real
	// calculation.
	Degraded bool `json:"degraded"`
}

// City is a carrier city directory entry.
type City struct {
	// Code is the carrier city code.
	Code int `json:"code"`
	// City is the city name.
	City string `json:"city"`
	// Region is the region name.
	Region string `json:"region"`
	// RegionCode is the carrier region code.
	RegionCode int `json:"regionCode"`
	// Country is the country name.
	Country string `json:"country"`
	// PostalCodes are the postal codes associated with the city.
	PostalCodes []string `json:"postalCodes,omitempty"`
}

// Phone is a pickup point contact number.
type Phone struct {
	// Number is the phone number.
	Number string `json:"number"`
}

// PickupPoint is a carrier-operated location where a delivery can be collected.
type PickupPoint struct {
	// Code is the carrier pickup point code.
	Code string `json:"code"`
	// Name is the pickup point display name.
	Name string `json:"name"`
	// Address is the short address.
	Address string `json:"address"`
	// AddressFull is the full postal address.
	AddressFull string `json:"addressFull"`
	// City is the city name.
	City string `json:"city"`
	// Region is the region name.
	Region string `json:"region"`
	// PostalCode is the postal code.
	PostalCode string `json:"postalCode"`
	// Latitude is the geographic latitude.
	Latitude float64 `json:"latitude"`
	// Longitude is the geographic longitude.
	Longitude float64 `json:"longitude"`
	// WorkTime is the human-readable working hours.
	WorkTime string `json:"workTime"`
	// Phones are the contact numbers.
	Phones []Phone `json:"phones,omitempty"`
	// Email is the contact email.
	Email string `json:"email,omitempty"`
}
