package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/payments"
)

// RegisterPaymentRoutes wires the payment journal endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Get("/payments/:accountId", h.List)
}
