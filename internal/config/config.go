package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stellar/go-stellar-sdk/network"
)

const (
	defaultAppName         = "StellarGateway"
	defaultAppEnv          = "development"
	defaultPort            = "5000"
	defaultLogLevel        = "info"
	defaultFrontendOrigin  = "http://localhost:3000"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultCreateRateLimit = 5
	defaultAccessTokenTTL  = time.Hour
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	createRateLimitEnvVar  = "CREATE_RATE_LIMIT"
	tokenTTLSecondsEnvVar  = "ACCESS_TOKEN_TTL_SECONDS"
	tokenTTLDurEnvVar      = "ACCESS_TOKEN_TTL"
)

// Public test network endpoints. These are deliberately not configurable.
const (
	TestnetHorizonURL   = "https://horizon-testnet.stellar.org/"
	TestnetFriendbotURL = "https://friendbot.stellar.org"
	TestnetPassphrase   = network.TestNetworkPassphrase
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	FrontendOrigin    string
	DatabaseURL       string
	RedisURL          string
	HorizonURL        string
	FriendbotURL      string
	NetworkPassphrase string
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
	CreateRateLimit   int
	JWTSecret         string
	AccessTokenTTL    time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
// Postgres and Redis are optional: an empty URL disables the features backed by them.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		FrontendOrigin:    getEnv("FRONTEND_ORIGIN", defaultFrontendOrigin),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		HorizonURL:        TestnetHorizonURL,
		FriendbotURL:      TestnetFriendbotURL,
		NetworkPassphrase: TestnetPassphrase,
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
		CreateRateLimit:   defaultCreateRateLimit,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenTTL:    defaultAccessTokenTTL,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if cfg.AccessTokenTTL, err = durationFromEnv(tokenTTLSecondsEnvVar, tokenTTLDurEnvVar, cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}

	// Without JWT_SECRET tokens only survive until the process restarts.
	if cfg.JWTSecret == "" {
		if cfg.JWTSecret, err = randomSecret(); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv(createRateLimitEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", createRateLimitEnvVar, err)
		}
		cfg.CreateRateLimit = n
	}

	if strings.TrimSpace(cfg.FrontendOrigin) == "*" {
		return Config{}, fmt.Errorf("FRONTEND_ORIGIN must name a concrete origin, not *")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// durationFromEnv prefers the integer-seconds variable over the Go duration one.
func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
