package utils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ClientIP extracts the caller's address, preferring the forwarded header
// set by the reverse proxy.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.IP()
}

// ClaimsFromContext returns the JWT claims attached by the auth middleware.
func ClaimsFromContext(c *fiber.Ctx) (jwt.MapClaims, error) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("user claims missing from context")
	}
	return claims, nil
}

// AuthIdentity pulls the user and organization ids out of the verified
// claims.
func AuthIdentity(c *fiber.Ctx) (userID uint, organizationID uint, err error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return 0, 0, err
	}

	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return 0, 0, fmt.Errorf("user id not found in token")
	}
	oid, ok := claims["organization_id"].(float64)
	if !ok || oid <= 0 {
		return 0, 0, fmt.Errorf("organization id not found in token")
	}
	return uint(uid), uint(oid), nil
}
