package wallet

import (
	"context"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the uniform JSON envelope returned by every operation, over HTTP
// and on the command line.
type Result struct {
	Status             string   `json:"status"`
	Message            string   `json:"message,omitempty"`
	Hash               string   `json:"hash,omitempty"`
	PublicKey          string   `json:"public_key,omitempty"`
	SecretKey          string   `json:"secret_key,omitempty"`
	Balances           Balances `json:"balances,omitempty"`
	SourceBalance      Balances `json:"source_balance,omitempty"`
	DestinationBalance Balances `json:"destination_balance,omitempty"`
}

// Param is a named input checked for presence.
type Param struct {
	Name  string
	Value string
}

// Missing returns the names of empty params, preserving their order.
func Missing(params ...Param) []string {
	var names []string
	for _, p := range params {
		if strings.TrimSpace(p.Value) == "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// MissingResult reports absent inputs.
func MissingResult(names []string) Result {
	return Result{Status: StatusError, Message: "Missing params: " + strings.Join(names, ", ")}
}

// Failure wraps any error into the error envelope.
func Failure(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}

// Check runs CheckBalance and shapes its outcome.
func (s *Service) Check(ctx context.Context, accountID string) Result {
	balances, err := s.CheckBalance(ctx, accountID)
	if err != nil {
		return Failure(err)
	}
	return Result{Status: StatusSuccess, Balances: balances}
}

// Send runs SendPayment and shapes its outcome.
func (s *Service) Send(ctx context.Context, req PaymentRequest) Result {
	receipt, err := s.SendPayment(ctx, req)
	if err != nil {
		return Failure(err)
	}
	return Result{
		Status:             StatusSuccess,
		Hash:               receipt.Hash,
		SourceBalance:      receipt.SourceBalance,
		DestinationBalance: receipt.DestinationBalance,
	}
}

// Create runs CreateAccount and shapes its outcome.
func (s *Service) Create(ctx context.Context) Result {
	account, err := s.CreateAccount(ctx)
	if err != nil {
		return Failure(err)
	}
	return Result{
		Status:    StatusSuccess,
		PublicKey: account.PublicKey,
		SecretKey: account.SecretKey,
		Balances:  account.Balances,
	}
}
