package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Middleware rejects requests whose bearer token fails local verification
// before they reach the backend. Valid claims are stored in c.Locals("claims").
func Middleware(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := v.Verify(FromHeader(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "войдите в аккаунт",
				"ray_id":  c.Locals("requestid"),
			})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
