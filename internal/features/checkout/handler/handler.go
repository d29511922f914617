package handler

import (
	"errors"
	"strconv"

	"checkout-orchestrator/internal/core/auth"
	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/checkout/domain"
	"checkout-orchestrator/internal/features/checkout/service"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for order submission and status refresh.
type CheckoutHandler struct {
	orchestrator *service.Orchestrator
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(orchestrator *service.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// validationResponse carries the per-field violations of a rejected form.
type validationResponse struct {
	// Message is the overall error description.
	Message string `json:"message"`
	// Errors holds the violations keyed by section and field.
	Errors domain.FormErrors `json:"errors"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// paymentInitResponse reports an order that was created but whose payment
// session could not be started.
type paymentInitResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// OrderID is the created order's identifier.
	OrderID int `json:"orderId"`
	// OrderNumber is the human-facing order number.
	OrderNumber string `json:"orderNumber"`
	// Route is the order page to recover on.
	Route string `json:"route"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// Submit godoc
// @Summary Submit checkout form
// @Description Validates the form, creates the order and branches on the payment type.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body domain.Form true "Checkout form"
// @Success 200 {object} service.Result
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} validationResponse
// @Failure 502 {object} paymentInitResponse
// @Security BearerAuth
// @Router /api/checkout [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	token := auth.FromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	}

	var form domain.Form
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	result, err := h.orchestrator.Submit(c.Context(), token, form)
	if err != nil {
		return h.submitError(c, result, err)
	}

	return c.JSON(result)
}

func (h *CheckoutHandler) submitError(c *fiber.Ctx, result service.Result, err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(validationResponse{
			Message: "проверьте правильность заполнения формы",
			Errors:  validationErr.Errors,
			RayID:   rayID(c),
		})
	case errors.Is(err, service.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "корзина пуста",
			RayID:   rayID(c),
		})
	case errors.Is(err, service.ErrSubmitInFlight):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "заказ уже обрабатывается",
			RayID:   rayID(c),
		})
	case errors.Is(err, service.ErrPaymentInit):
		return c.Status(fiber.StatusBadGateway).JSON(paymentInitResponse{
			Message:     "заказ создан, но не удалось создать платёж",
			OrderID:     result.OrderID,
			OrderNumber: result.OrderNumber,
			Route:       result.Route,
			RayID:       rayID(c),
		})
	case errors.Is(err, commerce.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	case errors.Is(err, commerce.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Message: "доступ запрещён",
			RayID:   rayID(c),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: "не удалось создать заказ",
			RayID:   rayID(c),
		})
	}
}

// GetOrder godoc
// @Summary Refresh order status
// @Description Returns the current order state for the polled status refresh.
// @Tags checkout
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/orders/{id} [get]
func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	token := auth.FromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id must be a number",
			RayID:   rayID(c),
		})
	}

	order, err := h.orchestrator.OrderStatus(c.Context(), token, orderID)
	if err != nil {
		switch {
		case errors.Is(err, commerce.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "войдите в аккаунт",
				RayID:   rayID(c),
			})
		case errors.Is(err, commerce.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "заказ не найден",
				RayID:   rayID(c),
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: "не удалось получить заказ",
				RayID:   rayID(c),
			})
		}
	}

	return c.JSON(order)
}
