package routes

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/stellar_gateway/internal/auth"
	"github.com/congo-pay/stellar_gateway/internal/config"
	"github.com/congo-pay/stellar_gateway/internal/faucet"
	"github.com/congo-pay/stellar_gateway/internal/identity"
	"github.com/congo-pay/stellar_gateway/internal/ledger"
	"github.com/congo-pay/stellar_gateway/internal/middleware"
	"github.com/congo-pay/stellar_gateway/internal/notification"
	"github.com/congo-pay/stellar_gateway/internal/payments"
	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional; Ledger and Funder are not.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Ledger  ledger.Ledger
	Funder  faucet.Funder
	Network Pinger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Ledger == nil {
		return errors.New("ledger is required")
	}
	if d.Funder == nil {
		return errors.New("faucet is required")
	}
	if d.Cfg.FrontendOrigin == "" {
		return errors.New("frontend origin is required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if isDev(d.Cfg.AppEnv) {
		// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.Preflight())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.Cfg.FrontendOrigin,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Idempotency-Key,X-Request-ID",
		AllowCredentials: true,
	}))

	// Health
	RegisterHealthRoutes(app, d)

	tokens, err := auth.NewTokens(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL, d.Cfg.AppName)
	if err != nil {
		return err
	}

	// Services and handlers
	var (
		journal payments.Repository
		users   identity.Repository
	)
	if d.DB != nil {
		ctx := context.Background()
		pgJournal := payments.NewPostgresRepository(d.DB)
		if err := pgJournal.EnsureSchema(ctx); err != nil {
			return err
		}
		pgUsers := identity.NewPostgresRepository(d.DB)
		if err := pgUsers.EnsureSchema(ctx); err != nil {
			return err
		}
		journal, users = pgJournal, pgUsers
	} else {
		journal, users = payments.NewMemoryRepository(), identity.NewMemoryRepository()
	}
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(d.Ledger, d.Funder, journal, notifier, d.Cfg.NetworkPassphrase, d.Logger)

	identitySvc := identity.NewService(users, walletSvc)

	var sendGuard, createGuard, registerGuard fiber.Handler
	if d.Cache != nil {
		sendGuard = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
		createGuard = middleware.RateLimit(d.Cache, "create", d.Cfg.CreateRateLimit)
		registerGuard = middleware.RateLimit(d.Cache, "register", d.Cfg.CreateRateLimit)
	}

	RegisterWalletRoutes(app, wallet.NewHandler(walletSvc), sendGuard, createGuard)
	RegisterPaymentRoutes(app, payments.NewHandler(journal))
	RegisterIdentityRoutes(app, identity.NewHandler(identitySvc, walletSvc, tokens), middleware.JWTAuth(tokens), registerGuard, sendGuard)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
