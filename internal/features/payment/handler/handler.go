package handler

import (
	"errors"
	"strconv"

	"checkout-orchestrator/internal/core/auth"
	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/payment/domain"
	"checkout-orchestrator/internal/features/payment/service"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payment sessions and statuses.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// sessionView is a stored session with its display labels derived.
type sessionView struct {
	domain.StoredSession
	// StatusLabel is the storefront label for the current status.
	StatusLabel string `json:"statusLabel"`
	// AmountLabel is the formatted amount due.
	AmountLabel string `json:"amountLabel"`
}

// createSessionRequest is the body of a payment session creation request.
type createSessionRequest struct {
	// OrderID is the order to pay for.
	OrderID int `json:"orderId"`
	// OrderNumber is the human-facing order number, kept for display.
	OrderNumber string `json:"orderNumber"`
	// TotalAmount is the amount due, kept for display.
	TotalAmount float64 `json:"totalAmount"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// backendError maps commerce backend failures to storefront responses.
func backendError(c *fiber.Ctx, err error) error {
	switch {
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
	case errors.Is(err, commerce.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "платёж не найден",
			RayID:   rayID(c),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: "payment provider unavailable",
			RayID:   rayID(c),
		})
	}
}

// CreateSession godoc
// @Summary Create payment session
// @Description Initiates an online payment session for an order and persists it for later restoration.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body createSessionRequest true "Session request"
// @Success 200 {object} domain.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/payments/session [post]
func (h *PaymentHandler) CreateSession(c *fiber.Ctx) error {
	token := auth.FromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.OrderID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "orderId is required",
			RayID:   rayID(c),
		})
	}

	session, err := h.paymentService.CreateSession(c.Context(), token, req.OrderID, req.OrderNumber, req.TotalAmount)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(session)
}

// GetStatus godoc
// @Summary Get payment status
// @Description Returns the current payment status from the provider.
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} domain.StatusResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/payments/{id}/status [get]
func (h *PaymentHandler) GetStatus(c *fiber.Ctx) error {
	token := auth.FromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	}

	paymentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "payment id must be a number",
			RayID:   rayID(c),
		})
	}

	result, err := h.paymentService.Status(c.Context(), token, paymentID)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(result)
}

// MarkOpened godoc
// @Summary Record payment page redirect
// @Description Marks the stored session as opened so the payment page is not auto-opened again.
// @Tags payments
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/payments/{id}/opened [post]
func (h *PaymentHandler) MarkOpened(c *fiber.Ctx) error {
	paymentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "payment id must be a number",
			RayID:   rayID(c),
		})
	}

	h.paymentService.MarkOpened(c.Context(), paymentID)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSession godoc
// @Summary Restore payment session
// @Description Returns the persisted session for a payment ID, if one survives.
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} domain.StoredSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/payments/{id}/session [get]
func (h *PaymentHandler) GetSession(c *fiber.Ctx) error {
	paymentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "payment id must be a number",
			RayID:   rayID(c),
		})
	}

	session := h.paymentService.Restore(c.Context(), paymentID)
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "сессия оплаты не найдена",
			RayID:   rayID(c),
		})
	}

	return c.JSON(sessionView{
		StoredSession: *session,
		StatusLabel:   session.StatusLabel(),
		AmountLabel:   session.AmountLabel(),
	})
}
