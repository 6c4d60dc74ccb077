package wallet

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the wallet operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkRequest struct {
	PublicKey string `json:"public_key"`
}

type sendRequest struct {
	SourceSecret         string `json:"source_secret"`
	DestinationPublicKey string `json:"destination_public_key"`
	Amount               Amount `json:"amount"`
	Memo                 string `json:"memo"`
}

// Amount accepts an amount given as either a JSON string or a JSON number.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Check returns the balances of public_key.
func (h *Handler) Check(c *fiber.Ctx) error {
	var req checkRequest
	if err := decode(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(Failure(err))
	}
	if missing := Missing(Param{"public_key", req.PublicKey}); len(missing) > 0 {
		return c.Status(http.StatusBadRequest).JSON(MissingResult(missing))
	}
	return c.Status(http.StatusOK).JSON(h.service.Check(c.UserContext(), req.PublicKey))
}

// Send submits a native payment.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := decode(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(Failure(err))
	}
	missing := Missing(
		Param{"source_secret", req.SourceSecret},
		Param{"destination_public_key", req.DestinationPublicKey},
		Param{"amount", string(req.Amount)},
	)
	if len(missing) > 0 {
		return c.Status(http.StatusBadRequest).JSON(MissingResult(missing))
	}
	return c.Status(http.StatusOK).JSON(h.service.Send(c.UserContext(), PaymentRequest{
		SourceSecret: req.SourceSecret,
		Destination:  req.DestinationPublicKey,
		Amount:       string(req.Amount),
		Memo:         req.Memo,
	}))
}

// Create provisions and funds a new test-network account.
func (h *Handler) Create(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.service.Create(c.UserContext()))
}

// Preflight answers OPTIONS with an empty 200.
func (h *Handler) Preflight(c *fiber.Ctx) error {
	c.Status(http.StatusOK)
	c.Response().ResetBody()
	return nil
}

// decode treats an empty body as an empty JSON object and does not insist on
// a JSON content type.
func decode(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.App().Config().JSONDecoder(c.Body(), out)
}
