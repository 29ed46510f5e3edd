package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"vaultapi/internal/auth"
)

// UsernameLocalKey is the key under which the authenticated account's username
// is stored in Fiber's context locals.
const UsernameLocalKey = "username"

// Auth validates the Bearer token on each request and stores the account's
// username in context locals for downstream handlers. Requests without a
// valid token are rejected with 401 before reaching any handler.
func Auth(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		username, err := auth.UsernameFromToken(token, jwtSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UsernameLocalKey, username)
		return c.Next()
	}
}

// UsernameFromCtx returns the authenticated username stored by Auth, or "".
func UsernameFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(UsernameLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
