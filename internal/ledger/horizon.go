package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/stellar/go-stellar-sdk/clients/horizonclient"
	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/txnbuild"
)

// Horizon adapts a horizonclient to the Ledger contract. horizonclient calls
// are not context aware, so the contexts are accepted for interface symmetry only.
type Horizon struct {
	client horizonclient.ClientInterface
}

// NewHorizon wraps the provided Horizon client.
func NewHorizon(client horizonclient.ClientInterface) *Horizon {
	return &Horizon{client: client}
}

// Account loads the account record, including balances and sequence number.
func (h *Horizon) Account(_ context.Context, id string) (horizon.Account, error) {
	account, err := h.client.AccountDetail(horizonclient.AccountRequest{AccountID: id})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return horizon.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		return horizon.Account{}, describe(err)
	}
	return account, nil
}

// BaseFee returns the base fee of the last closed ledger in stroops, falling
// back to the protocol minimum when Horizon reports none.
func (h *Horizon) BaseFee(_ context.Context) (int64, error) {
	stats, err := h.client.FeeStats()
	if err != nil {
		return 0, describe(err)
	}
	if stats.LastLedgerBaseFee <= 0 {
		return txnbuild.MinBaseFee, nil
	}
	return stats.LastLedgerBaseFee, nil
}

// Submit posts a signed transaction and waits for Horizon's verdict.
func (h *Horizon) Submit(_ context.Context, tx *txnbuild.Transaction) (horizon.Transaction, error) {
	receipt, err := h.client.SubmitTransaction(tx)
	if err != nil {
		if hErr := horizonclient.GetError(err); hErr != nil {
			return horizon.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionRejected, problemDetail(hErr))
		}
		return horizon.Transaction{}, err
	}
	return receipt, nil
}

// Ping checks that the Horizon root document is reachable.
func (h *Horizon) Ping(_ context.Context) error {
	if _, err := h.client.Root(); err != nil {
		return describe(err)
	}
	return nil
}

// describe replaces horizonclient's generic error text with the problem title
// and detail when Horizon returned a problem document.
func describe(err error) error {
	if hErr := horizonclient.GetError(err); hErr != nil {
		return fmt.Errorf("horizon: %s", problemDetail(hErr))
	}
	return err
}

func problemDetail(hErr *horizonclient.Error) string {
	var b strings.Builder
	b.WriteString(hErr.Problem.Title)
	if hErr.Problem.Detail != "" {
		b.WriteString(" - ")
		b.WriteString(hErr.Problem.Detail)
	}
	if codes, err := hErr.ResultCodes(); err == nil && codes != nil {
		fmt.Fprintf(&b, ": %s", codes.TransactionCode)
		if len(codes.OperationCodes) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(codes.OperationCodes, ", "))
		}
	}
	return b.String()
}
