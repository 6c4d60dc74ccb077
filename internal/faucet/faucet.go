package faucet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Funder asks a faucet to create and fund a test-network account.
type Funder interface {
	Fund(ctx context.Context, address string) error
}

// Friendbot calls the Stellar test-network faucet over HTTP.
type Friendbot struct {
	baseURL string
	timeout time.Duration
}

// NewFriendbot builds a faucet client for the given base URL. A zero timeout
// leaves the request unbounded.
func NewFriendbot(baseURL string, timeout time.Duration) *Friendbot {
	return &Friendbot{baseURL: baseURL, timeout: timeout}
}

// Fund issues GET <base>?addr=<address>. Any non-2xx status is a failure.
func (f *Friendbot) Fund(_ context.Context, address string) error {
	if address == "" {
		return errors.New("faucet: address is required")
	}

	agent := fiber.Get(f.baseURL).QueryString(url.Values{"addr": {address}}.Encode())
	if f.timeout > 0 {
		agent = agent.Timeout(f.timeout)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("faucet request: %w", errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("faucet returned status %d: %s", status, truncate(body, 256))
	}
	return nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
