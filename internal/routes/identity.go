package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/identity"
)

// RegisterIdentityRoutes wires the account-holder API under /api. requireAuth
// guards the user-scoped routes; registerGuard and sendGuard may be nil.
func RegisterIdentityRoutes(app *fiber.App, h *identity.Handler, requireAuth, registerGuard, sendGuard fiber.Handler) {
	api := app.Group("/api")
	api.Post("/register", withGuard(registerGuard, h.Register)...)
	api.Post("/login", h.Login)
	api.Get("/wallet/:userId", requireAuth, h.Wallet)
	api.Post("/send", append([]fiber.Handler{requireAuth}, withGuard(sendGuard, h.Send)...)...)
}
