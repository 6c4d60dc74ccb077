package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/protocols/horizon/base"
	"github.com/stellar/go-stellar-sdk/txnbuild"
)

const (
	nativeAssetType = "native"
	amountPrecision = 7
)

type memAccount struct {
	sequence   int64
	native     decimal.Decimal
	trustlines []horizon.Balance
}

type inMemoryLedger struct {
	mu          sync.RWMutex
	passphrase  string
	baseFee     int64
	ledgerSeq   int32
	accounts    map[string]*memAccount
	submissions int
}

// NewInMemory creates a concurrency-safe in-memory network useful for unit
// tests. It checks sequence numbers, source signatures and fees, and settles
// native payments.
func NewInMemory(passphrase string, baseFee int64) Ledger {
	return &inMemoryLedger{
		passphrase: passphrase,
		baseFee:    baseFee,
		ledgerSeq:  1,
		accounts:   make(map[string]*memAccount),
	}
}

func (l *inMemoryLedger) Account(_ context.Context, id string) (horizon.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[id]
	if !ok {
		return horizon.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}

	balances := make([]horizon.Balance, 0, len(acct.trustlines)+1)
	balances = append(balances, acct.trustlines...)
	balances = append(balances, horizon.Balance{
		Balance: acct.native.StringFixed(amountPrecision),
		Asset:   base.Asset{Type: nativeAssetType},
	})

	return horizon.Account{
		ID:        id,
		AccountID: id,
		Sequence:  acct.sequence,
		Balances:  balances,
	}, nil
}

func (l *inMemoryLedger) BaseFee(_ context.Context) (int64, error) {
	return l.baseFee, nil
}

func (l *inMemoryLedger) Submit(_ context.Context, tx *txnbuild.Transaction) (horizon.Transaction, error) {
	source := tx.SourceAccount()
	hash, err := tx.Hash(l.passphrase)
	if err != nil {
		return horizon.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.submissions++

	acct, ok := l.accounts[source.AccountID]
	if !ok {
		return horizon.Transaction{}, rejected("tx_no_source_account")
	}
	if source.Sequence != acct.sequence+1 {
		return horizon.Transaction{}, rejected("tx_bad_seq")
	}
	if !signedBy(source.AccountID, hash, tx) {
		return horizon.Transaction{}, rejected("tx_bad_auth")
	}
	if tx.BaseFee() < l.baseFee {
		return horizon.Transaction{}, rejected("tx_insufficient_fee")
	}

	fee := decimal.New(tx.BaseFee()*int64(len(tx.Operations())), -amountPrecision)
	debit := fee
	credits := make(map[string]decimal.Decimal)
	for _, op := range tx.Operations() {
		payment, ok := op.(*txnbuild.Payment)
		if !ok || !payment.Asset.IsNative() {
			return horizon.Transaction{}, rejected("tx_failed", "op_not_supported")
		}
		if _, exists := l.accounts[payment.Destination]; !exists {
			return horizon.Transaction{}, rejected("tx_failed", "op_no_destination")
		}
		amount, err := decimal.NewFromString(payment.Amount)
		if err != nil || !amount.IsPositive() {
			return horizon.Transaction{}, rejected("tx_failed", "op_malformed")
		}
		debit = debit.Add(amount)
		credits[payment.Destination] = credits[payment.Destination].Add(amount)
	}
	if acct.native.LessThan(debit) {
		return horizon.Transaction{}, rejected("tx_failed", "op_underfunded")
	}

	acct.native = acct.native.Sub(debit)
	acct.sequence = source.Sequence
	for dest, amount := range credits {
		l.accounts[dest].native = l.accounts[dest].native.Add(amount)
	}
	l.ledgerSeq++

	receipt := horizon.Transaction{
		Hash:       fmt.Sprintf("%x", hash),
		Ledger:     l.ledgerSeq,
		Successful: true,
		Account:    source.AccountID,
	}
	if memo, ok := tx.Memo().(txnbuild.MemoText); ok {
		receipt.MemoType = "text"
		receipt.Memo = string(memo)
	}
	return receipt, nil
}

func signedBy(address string, hash [32]byte, tx *txnbuild.Transaction) bool {
	kp, err := keypair.ParseAddress(address)
	if err != nil {
		return false
	}
	for _, sig := range tx.Signatures() {
		if kp.Verify(hash[:], sig.Signature) == nil {
			return true
		}
	}
	return false
}

func rejected(txCode string, opCodes ...string) error {
	if len(opCodes) == 0 {
		return fmt.Errorf("%w: Transaction Failed: %s", ErrTransactionRejected, txCode)
	}
	return fmt.Errorf("%w: Transaction Failed: %s %v", ErrTransactionRejected, txCode, opCodes)
}
