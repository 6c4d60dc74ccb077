package payments

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Handler exposes the payment journal.
type Handler struct {
	repo Repository
}

// NewHandler constructs a journal handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type paymentResponse struct {
	Hash        string    `json:"hash"`
	Ledger      int32     `json:"ledger"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Amount      string    `json:"amount"`
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// List returns journaled payments touching the account, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID := c.Params("accountId")
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	entries, err := h.repo.ListByAccount(c.UserContext(), accountID, limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]paymentResponse, 0, len(entries))
	for _, p := range entries {
		out = append(out, paymentResponse{
			Hash:        p.Hash,
			Ledger:      p.Ledger,
			Source:      p.Source,
			Destination: p.Destination,
			Amount:      p.Amount,
			Memo:        p.Memo,
			CreatedAt:   p.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":   "success",
		"payments": out,
	})
}
