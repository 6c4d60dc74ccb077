package payments

import (
	"errors"
	"time"
)

// ErrDuplicatePayment indicates a payment with the same transaction hash was
// already journaled.
var ErrDuplicatePayment = errors.New("duplicate payment")

// Payment is a journal entry for a payment the network accepted. Secrets are
// never recorded.
type Payment struct {
	ID          string
	Hash        string
	Ledger      int32
	Source      string
	Destination string
	Amount      string
	Memo        string
	CreatedAt   time.Time
}
