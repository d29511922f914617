package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-orchestrator/internal/features/delivery/domain"
	"checkout-orchestrator/internal/features/delivery/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCarrier is a mock implementation of CarrierProvider for testing.
type mockCarrier struct {
	returnTariffs []domain.Tariff
	returnCities  []domain.City
	returnPoints  []domain.PickupPoint
	returnError   error
}

func (m *mockCarrier) Calculate(ctx context.Context, address domain.Address, lines []domain.Line, tariffCode int) ([]domain.Tariff, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.returnTariffs, nil
}

func (m *mockCarrier) SearchCities(ctx context.Context, query string) ([]domain.City, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.returnCities, nil
}

func (m *mockCarrier) ListPickupPoints(ctx context.Context, cityCode int) ([]domain.PickupPoint, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.returnPoints, nil
}

func newApp(carrier *mockCarrier) *fiber.App {
	svc := service.NewDeliveryService(carrier, service.Options{
		FallbackCost: 990,
		Debounce:     time.Millisecond,
	})
	h := NewDeliveryHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/api/delivery/calculate", h.Calculate)
	app.Get("/api/delivery/cities", h.SearchCities)
	app.Get("/api/delivery/pvz", h.ListPickupPoints)
	return app
}

// TestDeliveryHandler_Calculate_Success verifies a successful quote response.
func TestDeliveryHandler_Calculate_Success(t *testing.T) {
	app := newApp(&mockCarrier{
		returnTariffs: []domain.Tariff{{Code: 139, Cost: 450, PeriodMin: 2, PeriodMax: 4}},
	})

	body, _ := json.Marshal(map[string]interface{}{
		"address": map[string]string{"city": "Москва", "street": "Ленина", "house": "1"},
		"items":   []map[string]interface{}{{"productId": "p-1", "quantity": 1, "price": 1500}},
	})
	req := httptest.NewRequest("POST", "/api/delivery/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quote domain.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.Equal(t, 450.0, quote.Cost)
	assert.False(t, quote.Degraded)
}

// TestDeliveryHandler_Calculate_MissingCity verifies validation of the body.
func TestDeliveryHandler_Calculate_MissingCity(t *testing.T) {
	app := newApp(&mockCarrier{})

	body, _ := json.Marshal(map[string]interface{}{
		"address": map[string]string{"street": "Ленина"},
	})
	req := httptest.NewRequest("POST", "/api/delivery/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "city is required")
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestDeliveryHandler_SearchCities verifies the suggestion endpoint.
func TestDeliveryHandler_SearchCities(t *testing.T) {
	app := newApp(&mockCarrier{
		returnCities: []domain.City{{Code: 44, City: "Москва"}},
	})

	req := httptest.NewRequest("GET", "/api/delivery/cities?query=%D0%9C%D0%BE", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cities []domain.City
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cities))
	require.Len(t, cities, 1)
	assert.Equal(t, "Москва", cities[0].City)
}

// TestDeliveryHandler_ListPickupPoints_BadCityCode verifies cityCode validation.
func TestDeliveryHandler_ListPickupPoints_BadCityCode(t *testing.T) {
	app := newApp(&mockCarrier{})

	req := httptest.NewRequest("GET", "/api/delivery/pvz?cityCode=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/delivery/pvz", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestDeliveryHandler_ListPickupPoints verifies the listing endpoint.
func TestDeliveryHandler_ListPickupPoints(t *testing.T) {
	app := newApp(&mockCarrier{
		returnPoints: []domain.PickupPoint{{Code: "MSK1", Name: "ПВЗ на Ленина"}},
	})

	req := httptest.NewRequest("GET", "/api/delivery/pvz?cityCode=44", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var points []domain.PickupPoint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&points))
	require.Len(t, points, 1)
	assert.Equal(t, "MSK1", points[0].Code)
}
