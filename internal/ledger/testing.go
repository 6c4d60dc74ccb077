package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/protocols/horizon/base"
)

// SeedAccount is a test helper that creates or tops up a native balance when
// using the in-memory ledger. New accounts start at sequence 100.
func SeedAccount(l Ledger, id, native string) {
	mem, ok := l.(*inMemoryLedger)
	if !ok {
		return
	}
	amount := decimal.RequireFromString(native)
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if acct, exists := mem.accounts[id]; exists {
		acct.native = acct.native.Add(amount)
		return
	}
	mem.accounts[id] = &memAccount{sequence: 100, native: amount}
}

// SeedTrustline adds a non-native balance line to an existing in-memory account.
func SeedTrustline(l Ledger, id, assetType, code, issuer, amount string) {
	mem, ok := l.(*inMemoryLedger)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if acct, exists := mem.accounts[id]; exists {
		acct.trustlines = append(acct.trustlines, horizon.Balance{
			Balance: amount,
			Asset:   base.Asset{Type: assetType, Code: code, Issuer: issuer},
		})
	}
}

// Submissions reports how many transactions reached the in-memory ledger.
func Submissions(l Ledger) int {
	mem, ok := l.(*inMemoryLedger)
	if !ok {
		return 0
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	return mem.submissions
}
