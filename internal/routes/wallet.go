package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

// mirrorPrefixes lists the mount points of the wallet routes. The /python
// copy keeps reverse proxies configured for the legacy service working.
var mirrorPrefixes = []string{"", "/python"}

// RegisterWalletRoutes wires the check/send/create endpoints under every mirror
// prefix. sendGuard and createGuard may be nil.
func RegisterWalletRoutes(app *fiber.App, h *wallet.Handler, sendGuard, createGuard fiber.Handler) {
	for _, prefix := range mirrorPrefixes {
		r := app.Group(prefix)
		r.Post("/check", h.Check)
		r.Post("/send", withGuard(sendGuard, h.Send)...)
		r.Post("/create", withGuard(createGuard, h.Create)...)
		for _, path := range []string{"/check", "/send", "/create"} {
			r.Options(path, h.Preflight)
		}
	}
}

func withGuard(guard, handler fiber.Handler) []fiber.Handler {
	if guard == nil {
		return []fiber.Handler{handler}
	}
	return []fiber.Handler{guard, handler}
}
