package handler

import (
	"strconv"

	"checkout-orchestrator/internal/features/delivery/domain"
	"checkout-orchestrator/internal/features/delivery/service"

	"github.com/gofiber/fiber/v2"
)

// DeliveryHandler handles HTTP requests for delivery calculation and lookups.
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// calculateRequest is the body of a delivery cost calculation request.
type calculateRequest struct {
	// Address is the destination address.
	Address domain.Address `json:"address"`
	// Items are the order lines packages are derived from.
	Items []domain.Line `json:"items"`
	// DeliveryOption is "door" or "pickup_point". Defaults to door.
	DeliveryOption string `json:"deliveryOption"`
	// TariffCode optionally requests a specific tariff.
	TariffCode int `json:"tariffCode"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// Calculate godoc
// @Summary Calculate delivery cost
// @Description Calculates delivery cost for an address and order lines. Returns a degraded flat quote when the carrier is unavailable.
// @Tags delivery
// @Accept json
// @Produce json
// @Param request body calculateRequest true "Calculation request"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Router /api/delivery/calculate [post]
func (h *DeliveryHandler) Calculate(c *fiber.Ctx) error {
	var req calculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	if req.Address.City == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "address city is required",
			RayID:   rayID(c),
		})
	}

	option := service.OptionDoor
	if req.DeliveryOption == string(service.OptionPickupPoint) {
		option = service.OptionPickupPoint
	}

	quote := h.deliveryService.Quote(c.Context(), req.Address, req.Items, option, req.TariffCode)

	return c.JSON(quote)
}

// SearchCities godoc
// @Summary Search carrier cities
// @Description Returns city suggestions for a query. Queries under two characters return an empty list.
// @Tags delivery
// @Produce json
// @Param query query string true "City name prefix"
// @Success 200 {array} domain.City
// @Router /api/delivery/cities [get]
func (h *DeliveryHandler) SearchCities(c *fiber.Ctx) error {
	query := c.Query("query")
	cities := h.deliveryService.SearchCities(c.Context(), query)
	return c.JSON(cities)
}

// ListPickupPoints godoc
// @Summary List pickup points
// @Description Returns the carrier pickup points available in a city.
// @Tags delivery
// @Produce json
// @Param cityCode query int true "Carrier city code"
// @Success 200 {array} domain.PickupPoint
// @Failure 400 {object} ErrorResponse
// @Router /api/delivery/pvz [get]
func (h *DeliveryHandler) ListPickupPoints(c *fiber.Ctx) error {
	cityCodeParam := c.Query("cityCode")
	if cityCodeParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "cityCode query parameter is required",
			RayID:   rayID(c),
		})
	}

	cityCode, err := strconv.Atoi(cityCodeParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "cityCode must be a number",
			RayID:   rayID(c),
		})
	}

	points := h.deliveryService.ListPickupPoints(c.Context(), cityCode)
	return c.JSON(points)
}
