package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/auth"
)

// JWTAuth returns a middleware that validates bearer tokens and stores the
// caller identity in request locals.
func JWTAuth(tokens *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", claims.AccountID)
		c.Locals("user_role", claims.Role)
		return c.Next()
	}
}

// RequireAdmin gates operator endpoints. The role is re-checked against the
// store so a token issued before a demotion cannot keep admin access.
func RequireAdmin(accounts account.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		acc, err := accounts.FindByID(c.UserContext(), uid)
		if err != nil || !acc.IsAdmin() {
			return fiber.NewError(http.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}
