package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stellar/go-stellar-sdk/clients/horizonclient"
	"github.com/stellar/go-stellar-sdk/protocols/horizon"
	"github.com/stellar/go-stellar-sdk/support/render/problem"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stretchr/testify/mock"
)

const someAddress = "GCSZ5BMPJN3PX73CQGZG2ZWGYD6N6DXNIGKK6SIYGHNU7TDWJHVA2OK5"

func TestHorizonAccountNotFound(t *testing.T) {
	client := &horizonclient.MockClient{}
	client.On("AccountDetail", horizonclient.AccountRequest{AccountID: someAddress}).
		Return(horizon.Account{}, &horizonclient.Error{Problem: problem.P{
			Type:   "https://stellar.org/horizon-errors/not_found",
			Title:  "Resource Missing",
			Status: 404,
		}})

	_, err := NewHorizon(client).Account(context.Background(), someAddress)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	client.AssertExpectations(t)
}

func TestHorizonAccountPassesThrough(t *testing.T) {
	client := &horizonclient.MockClient{}
	client.On("AccountDetail", mock.Anything).
		Return(horizon.Account{AccountID: someAddress, Sequence: 7}, nil)

	acct, err := NewHorizon(client).Account(context.Background(), someAddress)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.AccountID != someAddress || acct.Sequence != 7 {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestHorizonBaseFee(t *testing.T) {
	client := &horizonclient.MockClient{}
	client.On("FeeStats").Return(horizon.FeeStats{LastLedgerBaseFee: 250}, nil)

	fee, err := NewHorizon(client).BaseFee(context.Background())
	if err != nil || fee != 250 {
		t.Fatalf("expected fee 250, got %d (%v)", fee, err)
	}
	client.AssertExpectations(t)
}

func TestHorizonBaseFeeFallsBackToMinimum(t *testing.T) {
	client := &horizonclient.MockClient{}
	client.On("FeeStats").Return(horizon.FeeStats{}, nil)

	fee, err := NewHorizon(client).BaseFee(context.Background())
	if err != nil || fee != txnbuild.MinBaseFee {
		t.Fatalf("expected fee %d, got %d (%v)", txnbuild.MinBaseFee, fee, err)
	}
}

func TestHorizonProblemDetailIsSurfaced(t *testing.T) {
	client := &horizonclient.MockClient{}
	client.On("FeeStats").Return(horizon.FeeStats{}, &horizonclient.Error{Problem: problem.P{
		Title:  "Rate Limit Exceeded",
		Detail: "too many requests",
		Status: 429,
	}})

	_, err := NewHorizon(client).BaseFee(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Rate Limit Exceeded - too many requests") {
		t.Fatalf("expected problem detail in error, got %v", err)
	}
}
