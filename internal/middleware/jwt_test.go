package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/auth"
)

func TestJWTAuth(t *testing.T) {
	tokens, err := auth.NewTokens("secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/me", JWTAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	tok, _ := tokens.Issue("user-42", "")
	cases := []struct {
		header string
		status int
		body   string
	}{
		{"", fiber.StatusUnauthorized, ""},
		{"Bearer", fiber.StatusUnauthorized, ""},
		{"Basic abc", fiber.StatusUnauthorized, ""},
		{"Bearer not-a-jwt", fiber.StatusUnauthorized, ""},
		{"Bearer " + tok.Token, fiber.StatusOK, "user-42"},
		{"bearer " + tok.Token, fiber.StatusOK, "user-42"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set(fiber.HeaderAuthorization, tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != tc.status {
			t.Fatalf("%q: expected %d, got %d", tc.header, tc.status, resp.StatusCode)
		}
		if tc.body != "" && string(body) != tc.body {
			t.Fatalf("%q: expected body %q, got %q", tc.header, tc.body, body)
		}
	}
}
