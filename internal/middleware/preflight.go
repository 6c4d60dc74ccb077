package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Preflight rewrites the CORS middleware's 204 pre-flight answer to an empty
// 200. It must be registered before the CORS middleware.
func Preflight() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}
		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusNoContent {
			c.Status(fiber.StatusOK)
			c.Response().ResetBody()
		}
		return nil
	}
}
