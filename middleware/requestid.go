package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID carries the per-request correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID attaches a correlation id to every request. An id supplied by
// the caller is kept so the gateway's id survives into our logs; otherwise a
// fresh one is generated. The id is echoed on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("request_id", id)
		c.Set(HeaderRequestID, id)

		return c.Next()
	}
}
