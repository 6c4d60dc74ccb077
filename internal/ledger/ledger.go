package ledger

import (
	"context"
	"errors"

	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/txnbuild"
)

var (
	// ErrAccountNotFound occurs when the network has no account for the
	// requested address.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionRejected indicates the network refused a submitted
	// transaction. The wrapping error carries the rejection detail.
	ErrTransactionRejected = errors.New("transaction rejected")
)

// Ledger is the narrow view of the Stellar network used by the gateway. Each
// call is a single round trip; nothing is retried.
type Ledger interface {
	Account(ctx context.Context, id string) (horizon.Account, error)
	BaseFee(ctx context.Context) (int64, error)
	Submit(ctx context.Context, tx *txnbuild.Transaction) (horizon.Transaction, error)
}
