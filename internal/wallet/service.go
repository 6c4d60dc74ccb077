package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/txnbuild"

	"github.com/congo-pay/stellar_gateway/internal/faucet"
	"github.com/congo-pay/stellar_gateway/internal/ledger"
	"github.com/congo-pay/stellar_gateway/internal/notification"
	"github.com/congo-pay/stellar_gateway/internal/payments"
)

// paymentTimeoutSeconds bounds how long a built payment stays valid.
const paymentTimeoutSeconds = 30

// ErrDestinationMissing is returned before any submission when the payee
// account does not exist on the network.
var ErrDestinationMissing = errors.New("The destination account does not exist!")

// Service implements the balance, payment and account-creation operations on
// top of the ledger adapter and the faucet.
type Service struct {
	ledger     ledger.Ledger
	funder     faucet.Funder
	journal    payments.Repository
	notifier   notification.Notifier
	passphrase string
	logger     *slog.Logger
}

// NewService builds the wallet service. journal and notifier are optional.
func NewService(led ledger.Ledger, funder faucet.Funder, journal payments.Repository, notifier notification.Notifier, passphrase string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:     led,
		funder:     funder,
		journal:    journal,
		notifier:   notifier,
		passphrase: passphrase,
		logger:     logger,
	}
}

// CheckBalance fetches the account and flattens its balance lines.
func (s *Service) CheckBalance(ctx context.Context, accountID string) (Balances, error) {
	account, err := s.ledger.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return balancesOf(account), nil
}

// SendPayment builds, signs and submits a single native payment.
func (s *Service) SendPayment(ctx context.Context, req PaymentRequest) (PaymentReceipt, error) {
	source, err := keypair.ParseFull(req.SourceSecret)
	if err != nil {
		return PaymentReceipt{}, fmt.Errorf("invalid source secret: %w", err)
	}

	if _, err := s.ledger.Account(ctx, req.Destination); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return PaymentReceipt{}, ErrDestinationMissing
		}
		return PaymentReceipt{}, err
	}

	sourceAccount, err := s.ledger.Account(ctx, source.Address())
	if err != nil {
		return PaymentReceipt{}, err
	}
	fee, err := s.ledger.BaseFee(ctx)
	if err != nil {
		return PaymentReceipt{}, err
	}

	params := txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		BaseFee:              fee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(paymentTimeoutSeconds)},
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: req.Destination,
			Amount:      req.Amount,
			Asset:       txnbuild.NativeAsset{},
		}},
	}
	if req.Memo != "" {
		params.Memo = txnbuild.MemoText(req.Memo)
	}

	tx, err := txnbuild.NewTransaction(params)
	if err != nil {
		return PaymentReceipt{}, err
	}
	tx, err = tx.Sign(s.passphrase, source)
	if err != nil {
		return PaymentReceipt{}, err
	}

	submitted, err := s.ledger.Submit(ctx, tx)
	if err != nil {
		return PaymentReceipt{}, err
	}

	receipt := PaymentReceipt{Hash: submitted.Hash, Ledger: submitted.Ledger, SubmittedAt: time.Now().UTC()}
	if receipt.SourceBalance, err = s.CheckBalance(ctx, source.Address()); err != nil {
		return PaymentReceipt{}, fmt.Errorf("payment %s submitted but source balance refresh failed: %w", receipt.Hash, err)
	}
	if receipt.DestinationBalance, err = s.CheckBalance(ctx, req.Destination); err != nil {
		return PaymentReceipt{}, fmt.Errorf("payment %s submitted but destination balance refresh failed: %w", receipt.Hash, err)
	}

	s.journalPayment(ctx, source.Address(), req, receipt)
	s.notify(ctx, notification.Message{
		Kind:        notification.KindPaymentSubmitted,
		Destination: req.Destination,
		Body:        fmt.Sprintf("You received %s XLM from %s (tx %s)", req.Amount, source.Address(), receipt.Hash),
	})

	return receipt, nil
}

// CreateAccount generates a key pair locally, asks the faucet to fund it and
// reads back the resulting balances.
func (s *Service) CreateAccount(ctx context.Context) (NewAccount, error) {
	pair, err := keypair.Random()
	if err != nil {
		return NewAccount{}, fmt.Errorf("generate key pair: %w", err)
	}

	if err := s.funder.Fund(ctx, pair.Address()); err != nil {
		return NewAccount{}, err
	}

	balances, err := s.CheckBalance(ctx, pair.Address())
	if err != nil {
		return NewAccount{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindAccountCreated,
		Destination: pair.Address(),
		Body:        "testnet account funded",
	})

	return NewAccount{PublicKey: pair.Address(), SecretKey: pair.Seed(), Balances: balances}, nil
}

func (s *Service) journalPayment(ctx context.Context, source string, req PaymentRequest, receipt PaymentReceipt) {
	if s.journal == nil {
		return
	}
	err := s.journal.Record(ctx, payments.Payment{
		Hash:        receipt.Hash,
		Ledger:      receipt.Ledger,
		Source:      source,
		Destination: req.Destination,
		Amount:      req.Amount,
		Memo:        req.Memo,
		CreatedAt:   receipt.SubmittedAt,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "journal payment failed", slog.String("hash", receipt.Hash), slog.Any("error", err))
	}
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}

func balancesOf(account horizon.Account) Balances {
	out := make(Balances, len(account.Balances))
	for _, b := range account.Balances {
		out[b.Type] = b.Balance
	}
	return out
}
