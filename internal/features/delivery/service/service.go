package service

import (
	"context"
	"fmt"
	"time"

	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/features/delivery/domain"
	"checkout-orchestrator/internal/features/delivery/ports"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DeliveryOption selects where the carrier hands over the parcel.
type DeliveryOption string

const (
	// OptionDoor delivers to the customer's door.
	OptionDoor DeliveryOption = "door"
	// OptionPickupPoint delivers to a carrier pickup point.
	OptionPickupPoint DeliveryOption = "pickup_point"
)

// Options configures the DeliveryService.
type Options struct {
	// FallbackCost is the flat cost returned when the carrier fails.
	FallbackCost float64
	// Debounce is the quiet period for QuoteLater.
	Debounce time.Duration
	// CarrierRatePerSecond caps calculate calls per second. Zero disables limiting.
	CarrierRatePerSecond int
}

// DeliveryService resolves delivery costs, city matches and pickup points.
// Lookup failures never propagate: city and pickup point lookups degrade to
// empty lists, cost calculation degrades to a flat fallback quote marked
// Degraded so callers can tell it apart from a real calculation.
type DeliveryService struct {
	carrier      ports.CarrierProvider
	limiter      *rate.Limiter
	fallbackCost float64
	logger       *zap.Logger

	debouncer *Debouncer
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(carrier ports.CarrierProvider, opts Options) *DeliveryService {
	limit := rate.Inf
	if opts.CarrierRatePerSecond > 0 {
		limit = rate.Limit(opts.CarrierRatePerSecond)
	}

	return &DeliveryService{
		carrier:      carrier,
		limiter:      rate.NewLimiter(limit, 1),
		fallbackCost: opts.FallbackCost,
		logger:       logger.Named("delivery"),
		debouncer:    NewDebouncer(opts.Debounce),
	}
}

// Quote calculates the delivery cost for the given destination and lines.
// option picks the default tariff; requestedTariff overrides it when non-zero.
// When the requested tariff is absent from the carrier response, the first
// returned tariff is used instead.
func (s *DeliveryService) Quote(ctx context.Context, address domain.Address, lines []domain.Line, option DeliveryOption, requestedTariff int) domain.Quote {
	tariffCode := requestedTariff
	if tariffCode == 0 {
		tariffCode = domain.TariffDoor
		if option == OptionPickupPoint {
			tariffCode = domain.TariffPickupPoint
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("Carrier rate limiter interrupted", zap.Error(err))
		return s.fallbackQuote()
	}

	tariffs, err := s.carrier.Calculate(ctx, address, lines, tariffCode)
	if err != nil {
		s.logger.Warn("Delivery calculation degraded to fallback",
			zap.String("city", address.City),
			zap.Int("tariff_code", tariffCode),
			zap.Error(err),
		)
		return s.fallbackQuote()
	}

	selected, ok := selectTariff(tariffs, tariffCode)
	if !ok {
		s.logger.Warn("Carrier returned no tariffs", zap.String("city", address.City))
		return s.fallbackQuote()
	}

	deliveryDate := time.Now().AddDate(0, 0, selected.PeriodMax).Format("2006-01-02")

	return domain.Quote{
		Cost:             selected.Cost,
		DeliveryDate:     deliveryDate,
		DeliveryTime:     formatPeriod(selected),
		AvailableTariffs: tariffs,
	}
}

// QuoteLater schedules a debounced quote calculation. A new call cancels any
// pending one; only the latest scheduled calculation delivers its result.
// deliver runs on a background goroutine.
func (s *DeliveryService) QuoteLater(ctx context.Context, address domain.Address, lines []domain.Line, option DeliveryOption, deliver func(domain.Quote)) {
	s.debouncer.Do(func(gen uint64) {
		quote := s.Quote(ctx, address, lines, option, 0)
		if !s.debouncer.Current(gen) {
			// A newer edit superseded this calculation while it was in flight.
			return
		}
		deliver(quote)
	})
}

// SearchCities returns city suggestions for the query. Queries shorter than
// two characters return an empty list without a network call.
func (s *DeliveryService) SearchCities(ctx context.Context, query string) []domain.City {
	if len([]rune(query)) < 2 {
		return []domain.City{}
	}

	cities, err := s.carrier.SearchCities(ctx, query)
	if err != nil {
		s.logger.Warn("City search degraded to empty result", zap.String("query", query), zap.Error(err))
		return []domain.City{}
	}

	return cities
}

// ListPickupPoints returns the pickup points for a city code. A zero city
// code or a lookup failure yields an empty list.
func (s *DeliveryService) ListPickupPoints(ctx context.Context, cityCode int) []domain.PickupPoint {
	if cityCode == 0 {
		return []domain.PickupPoint{}
	}

	points, err := s.carrier.ListPickupPoints(ctx, cityCode)
	if err != nil {
		s.logger.Warn("Pickup point listing degraded to empty result", zap.Int("city_code", cityCode), zap.Error(err))
		return []domain.PickupPoint{}
	}

	return points
}

// fallbackQuote is the flat default returned when the carrier integration
// degrades. No date or time is set so callers can tell it is not a real
// calculation.
func (s *DeliveryService) fallbackQuote() domain.Quote {
	return domain.Quote{
		Cost:     s.fallbackCost,
		Degraded: true,
	}
}

// selectTariff picks the tariff matching code, falling back to the first one.
func selectTariff(tariffs []domain.Tariff, code int) (domain.Tariff, bool) {
	if len(tariffs) == 0 {
		return domain.Tariff{}, false
	}
	for _, t := range tariffs {
		if t.Code == code {
			return t, true
		}
	}
	return tariffs[0], true
}

// formatPeriod renders the delivery window the way the storefront shows it.
func formatPeriod(t domain.Tariff) string {
	return fmt.Sprintf("%d-%d дней", t.PeriodMin, t.PeriodMax)
}
