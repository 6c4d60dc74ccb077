package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/network"
	"github.com/stellar/go-stellar-sdk/txnbuild"
)

const testFee = 100

func buildPayment(t *testing.T, l Ledger, signer *keypair.Full, dest, amount string) *txnbuild.Transaction {
	t.Helper()
	ctx := context.Background()
	src, err := l.Account(ctx, signer.Address())
	if err != nil {
		t.Fatalf("load source: %v", err)
	}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &src,
		IncrementSequenceNum: true,
		BaseFee:              testFee,
		Memo:                 txnbuild.MemoText("rent"),
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(30)},
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: dest,
			Amount:      amount,
			Asset:       txnbuild.NativeAsset{},
		}},
	})
	if err != nil {
		t.Fatalf("build tx: %v", err)
	}
	tx, err = tx.Sign(network.TestNetworkPassphrase, signer)
	if err != nil {
		t.Fatalf("sign tx: %v", err)
	}
	return tx
}

func nativeBalance(t *testing.T, l Ledger, id string) string {
	t.Helper()
	acct, err := l.Account(context.Background(), id)
	if err != nil {
		t.Fatalf("load %s: %v", id, err)
	}
	for _, b := range acct.Balances {
		if b.Type == nativeAssetType {
			return b.Balance
		}
	}
	t.Fatalf("no native balance for %s", id)
	return ""
}

func TestInMemoryLedger_PaymentSettlesWithFee(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	src, dst := keypair.MustRandom(), keypair.MustRandom()
	SeedAccount(l, src.Address(), "100")
	SeedAccount(l, dst.Address(), "10")

	receipt, err := l.Submit(context.Background(), buildPayment(t, l, src, dst.Address(), "25.5"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(receipt.Hash) != 64 || !receipt.Successful {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if receipt.Memo != "rent" {
		t.Fatalf("expected memo to be recorded, got %q", receipt.Memo)
	}

	if got := nativeBalance(t, l, src.Address()); got != "74.4999900" {
		t.Fatalf("expected source 74.4999900, got %s", got)
	}
	if got := nativeBalance(t, l, dst.Address()); got != "35.5000000" {
		t.Fatalf("expected destination 35.5000000, got %s", got)
	}
}

func TestInMemoryLedger_RejectsReplayedSequence(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	src, dst := keypair.MustRandom(), keypair.MustRandom()
	SeedAccount(l, src.Address(), "100")
	SeedAccount(l, dst.Address(), "1")

	tx := buildPayment(t, l, src, dst.Address(), "1")
	if _, err := l.Submit(context.Background(), tx); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := l.Submit(context.Background(), tx); !errors.Is(err, ErrTransactionRejected) {
		t.Fatalf("expected rejection on replay, got %v", err)
	}
}

func TestInMemoryLedger_RejectsForeignSignature(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	src, dst, intruder := keypair.MustRandom(), keypair.MustRandom(), keypair.MustRandom()
	SeedAccount(l, src.Address(), "100")
	SeedAccount(l, dst.Address(), "1")
	SeedAccount(l, intruder.Address(), "1")

	acct, _ := l.Account(context.Background(), src.Address())
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &acct,
		IncrementSequenceNum: true,
		BaseFee:              testFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(30)},
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: dst.Address(), Amount: "1", Asset: txnbuild.NativeAsset{},
		}},
	})
	if err != nil {
		t.Fatalf("build tx: %v", err)
	}
	tx, err = tx.Sign(network.TestNetworkPassphrase, intruder)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := l.Submit(context.Background(), tx); !errors.Is(err, ErrTransactionRejected) {
		t.Fatalf("expected bad auth rejection, got %v", err)
	}
}

func TestInMemoryLedger_UnderfundedAndMissingDestination(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	src, dst := keypair.MustRandom(), keypair.MustRandom()
	SeedAccount(l, src.Address(), "5")

	if _, err := l.Submit(context.Background(), buildPayment(t, l, src, dst.Address(), "1")); !errors.Is(err, ErrTransactionRejected) {
		t.Fatalf("expected missing destination rejection, got %v", err)
	}

	SeedAccount(l, dst.Address(), "1")
	if _, err := l.Submit(context.Background(), buildPayment(t, l, src, dst.Address(), "5")); !errors.Is(err, ErrTransactionRejected) {
		t.Fatalf("expected underfunded rejection, got %v", err)
	}
	if got := nativeBalance(t, l, src.Address()); got != "5.0000000" {
		t.Fatalf("rejected payments must not move funds, got %s", got)
	}
}

func TestInMemoryLedger_UnknownAccount(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	if _, err := l.Account(context.Background(), keypair.MustRandom().Address()); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestInMemoryLedger_ConcurrentReads(t *testing.T) {
	l := NewInMemory(network.TestNetworkPassphrase, testFee)
	id := keypair.MustRandom().Address()
	SeedAccount(l, id, "42")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Account(context.Background(), id); err != nil {
				t.Errorf("account: %v", err)
			}
		}()
	}
	wg.Wait()
}
