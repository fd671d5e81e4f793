package middleware

import (
	"log"
	"strings"

	"bytestore/internal/auth"
	"bytestore/internal/services"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware that checks for a valid bearer token and
// stores the caller identity in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errors": []string{"Authorization header is required"},
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errors": []string{"Authorization header format must be 'Bearer <token>'"},
			})
		}

		identity, err := authService.VerifyToken(parts[1])
		if err != nil {
			log.Printf("Token verification failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errors": []string{"Invalid or expired token"},
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// AdminOnly rejects callers without the Admin role. It must run after
// AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if !identity.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"errors": []string{"Admin role required"},
			})
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired, or a zero
// identity if the middleware did not run.
func IdentityFrom(c *fiber.Ctx) auth.Identity {
	identity, _ := c.Locals(identityKey).(auth.Identity)
	return identity
}
