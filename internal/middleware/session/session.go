package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/refineryiq/server/internal/auth"
)

// Middleware gates a route group on a valid session token. It only decides
// access; what the client does on a 401 (redirect to login) is its business.
func Middleware(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" || !gate.IsValid(token) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}

		if user, ok := gate.Principal(token); ok {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

// UserFromContext returns the principal stored by the middleware.
func UserFromContext(c *fiber.Ctx) (auth.User, bool) {
	user, ok := c.Locals("user").(auth.User)
	return user, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
