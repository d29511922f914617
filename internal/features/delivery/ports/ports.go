package ports

import (
	"context"

	"checkout-orchestrator/internal/features/delivery/domain"
)

// CarrierProvider defines the interface for the delivery carrier integration.
// This is a Secondary Port (Driven Port).
type CarrierProvider interface {
	// Calculate returns the carrier tariffs for the given destination and lines.
	// tariffCode selects the preferred tariff (TariffDoor or TariffPickupPoint).
	Calculate(ctx context.Context, address domain.Address, lines []domain.Line, tariffCode int) ([]domain.Tariff, error)

	// SearchCities returns city directory matches for the query.
	SearchCities(ctx context.Context, query string) ([]domain.City, error)

	// ListPickupPoints returns the pickup points available in a city.
	ListPickupPoints(ctx context.Context, cityCode int) ([]domain.PickupPoint, error)
}
