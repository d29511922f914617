package handler

import (
	"errors"

	"checkout-orchestrator/internal/core/auth"
	"checkout-orchestrator/internal/core/commerce"
	"checkout-orchestrator/internal/features/counters/service"

	"github.com/gofiber/fiber/v2"
)

// CountersHandler handles HTTP requests for badge counts.
type CountersHandler struct {
	store *service.Store
}

// NewCountersHandler creates a new CountersHandler.
func NewCountersHandler(store *service.Store) *CountersHandler {
	return &CountersHandler{
		store: store,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
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

// GetCounts godoc
// @Summary Get badge counts
// @Description Returns the cart and favorites counts for the header badges.
// @Tags counters
// @Produce json
// @Success 200 {object} domain.Counts
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/counters [get]
func (h *CountersHandler) GetCounts(c *fiber.Ctx) error {
	token := auth.FromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "войдите в аккаунт",
			RayID:   rayID(c),
		})
	}

	counts, err := h.store.Counts(c.Context(), token)
	if err != nil {
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
		default:
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: "не удалось получить счётчики",
				RayID:   rayID(c),
			})
		}
	}

	return c.JSON(counts)
}
