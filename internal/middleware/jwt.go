package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/auth"
)

const userIDLocal = "user_id"

// JWTAuth requires a valid bearer access token and stores its subject for
// UserID.
func JWTAuth(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		const scheme = "bearer "
		if len(authz) <= len(scheme) || !strings.EqualFold(authz[:len(scheme)], scheme) {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.Verify(strings.TrimSpace(authz[len(scheme):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		c.Locals(userIDLocal, claims.Subject)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by JWTAuth, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}
