package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

// AccountCreator provisions the funded key pair handed to a new user.
type AccountCreator interface {
	CreateAccount(ctx context.Context) (wallet.NewAccount, error)
}

// Service manages user registration and credential checks.
type Service struct {
	repo     Repository
	accounts AccountCreator
	cost     int
}

// NewService creates a new identity service.
func NewService(repo Repository, accounts AccountCreator) *Service {
	return &Service{repo: repo, accounts: accounts, cost: bcrypt.DefaultCost}
}

// Register creates a user bound to a freshly funded key pair. The email is
// checked before the faucet is called so duplicates do not burn testnet funds.
func (s *Service) Register(ctx context.Context, reg Registration) (User, wallet.Balances, error) {
	email := normalizeEmail(reg.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return User{}, nil, err
	}

	account, err := s.accounts.CreateAccount(ctx)
	if err != nil {
		return User{}, nil, err
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     reg.Username,
		Email:        email,
		PasswordHash: hash,
		PublicKey:    account.PublicKey,
		SecretKey:    account.SecretKey,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, nil, err
	}
	return user, account.Balances, nil
}

// Authenticate verifies email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Lookup returns the user with the given id.
func (s *Service) Lookup(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}
