package middleware

import (
	"crypto/subtle"
	"os"

	"tms-backend/types"

	"github.com/gofiber/fiber/v2"
)

// RequireClientAPIKey gates job-trigger endpoints behind the static shared
// secret carried in the client-api-key header. The check runs before any
// other processing.
func RequireClientAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := os.Getenv("CLIENT_API_KEY")
		provided := c.Get("client-api-key")

		if expected == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid or missing API key",
			})
		}

		return c.Next()
	}
}
