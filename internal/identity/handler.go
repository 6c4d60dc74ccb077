package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/stellar_gateway/internal/auth"
	"github.com/congo-pay/stellar_gateway/internal/middleware"
	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

const missingFields = "Missing required fields"

// Handler exposes registration, login and the user-scoped wallet endpoints.
type Handler struct {
	users   *Service
	wallets *wallet.Service
	tokens  *auth.Tokens
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(users *Service, wallets *wallet.Service, tokens *auth.Tokens) *Handler {
	return &Handler{users: users, wallets: wallets, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Status    string          `json:"status"`
	UserID    string          `json:"userId"`
	Username  string          `json:"username"`
	PublicKey string          `json:"publicKey"`
	Balances  wallet.Balances `json:"balances,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status    string    `json:"status"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	PublicKey string    `json:"publicKey"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sendRequest struct {
	UserID         string        `json:"userId"`
	DestinationKey string        `json:"destinationKey"`
	Amount         wallet.Amount `json:"amount"`
	Memo           string        `json:"memo"`
}

// Register creates a user and its funded key pair.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if len(wallet.Missing(
		wallet.Param{Name: "username", Value: req.Username},
		wallet.Param{Name: "email", Value: req.Email},
		wallet.Param{Name: "password", Value: req.Password},
	)) > 0 {
		return fiber.NewError(http.StatusBadRequest, missingFields)
	}

	user, balances, err := h.users.Register(c.UserContext(), Registration{Username: req.Username, Email: req.Email, Password: req.Password})
	switch {
	case errors.Is(err, ErrUserExists):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case err != nil:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(registerResponse{
		Status:    wallet.StatusSuccess,
		UserID:    user.ID,
		Username:  user.Username,
		PublicKey: user.PublicKey,
		Balances:  balances,
	})
}

// Login verifies credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, missingFields)
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case err != nil:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		Status:    wallet.StatusSuccess,
		UserID:    user.ID,
		Username:  user.Username,
		PublicKey: user.PublicKey,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// Wallet returns the public key of the caller's wallet. The secret never
// leaves the server.
func (h *Handler) Wallet(c *fiber.Ctx) error {
	user, err := h.owner(c, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":    wallet.StatusSuccess,
		"publicKey": user.PublicKey,
	})
}

// Send pays from the caller's stored key pair.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	missing := wallet.Missing(
		wallet.Param{Name: "destinationKey", Value: req.DestinationKey},
		wallet.Param{Name: "amount", Value: string(req.Amount)},
	)
	if len(missing) > 0 {
		return c.Status(http.StatusBadRequest).JSON(wallet.MissingResult(missing))
	}

	user, err := h.owner(c, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.wallets.Send(c.UserContext(), wallet.PaymentRequest{
		SourceSecret: user.SecretKey,
		Destination:  req.DestinationKey,
		Amount:       string(req.Amount),
		Memo:         req.Memo,
	}))
}

// owner resolves the authenticated user. A userId naming someone else is
// refused; an empty one means the caller.
func (h *Handler) owner(c *fiber.Ctx, userID string) (User, error) {
	caller := middleware.UserID(c)
	if caller == "" {
		return User{}, fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if userID != "" && userID != caller {
		return User{}, fiber.NewError(http.StatusForbidden, "Forbidden")
	}
	user, err := h.users.Lookup(c.UserContext(), caller)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return User{}, fiber.NewError(http.StatusNotFound, "Wallet not found")
	case err != nil:
		return User{}, fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
