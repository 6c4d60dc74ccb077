package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader    = "Idempotency-Key"
	idempotencyReplayHeader = "Idempotent-Replayed"
	idempotencyPrefix       = "idempotency:v2:"
	inProgressMarker        = "__in_progress__"
	idempotencyStoreTimeout = 2 * time.Second
)

// replayedResponse is what gets stored for a settled key. Only the content type
// is kept from the headers; per-request headers such as X-Request-ID are
// produced fresh on every replay.
type replayedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type idempotencyStore struct {
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func (s idempotencyStore) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), idempotencyStoreTimeout)
}

// lookup returns the stored response, whether another request holds the key,
// or redis.Nil when the key is free.
func (s idempotencyStore) lookup(key string) (replayedResponse, bool, error) {
	ctx, cancel := s.withTimeout()
	defer cancel()
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return replayedResponse{}, false, err
	}
	if string(raw) == inProgressMarker {
		return replayedResponse{}, true, nil
	}
	var stored replayedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return replayedResponse{}, false, err
	}
	return stored, false, nil
}

// reserve claims the key. false means a concurrent request won the race.
func (s idempotencyStore) reserve(key string) (bool, error) {
	ctx, cancel := s.withTimeout()
	defer cancel()
	return s.cache.SetNX(ctx, key, inProgressMarker, s.ttl).Result()
}

func (s idempotencyStore) release(key string) {
	ctx, cancel := s.withTimeout()
	defer cancel()
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("idempotency release failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s idempotencyStore) save(key string, resp replayedResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout()
	defer cancel()
	return s.cache.Set(ctx, key, payload, s.ttl).Err()
}

// settled reports whether a response may be replayed: a 2xx whose JSON
// envelope, when it carries a status, reports success. Operation failures are
// answered with 200 and status "error"; those must stay retryable.
func settled(code int, contentType string, body []byte) bool {
	if code < 200 || code > 299 {
		return false
	}
	if contentType != fiber.MIMEApplicationJSON && contentType != fiber.MIMEApplicationJSONCharsetUTF8 {
		return true
	}
	var envelope struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	return envelope.Status == nil || *envelope.Status == "success"
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key on unsafe methods. Requests without the header pass through.
// Failed attempts free the key so the client can retry with it.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	store := idempotencyStore{cache: cache, ttl: ttl, logger: logger}

	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return c.Next()
		}
		cacheKey := idempotencyPrefix + c.Path() + ":" + key
		if uid := UserID(c); uid != "" {
			cacheKey += ":" + uid
		}

		stored, busy, err := store.lookup(cacheKey)
		switch {
		case err == nil && busy:
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		case err == nil:
			c.Set(idempotencyReplayHeader, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		case !errors.Is(err, redis.Nil):
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		won, err := store.reserve(cacheKey)
		if err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}
		if !won {
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		}

		if err := c.Next(); err != nil {
			store.release(cacheKey)
			return err
		}

		resp := replayedResponse{
			Status:      c.Response().StatusCode(),
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if !settled(resp.Status, resp.ContentType, resp.Body) {
			store.release(cacheKey)
			return nil
		}
		if err := store.save(cacheKey, resp); err != nil {
			logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			store.release(cacheKey)
		}
		return nil
	}
}
