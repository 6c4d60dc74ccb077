package identity

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUserExists         = errors.New("User already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// User is a registered owner of exactly one testnet key pair.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	PublicKey    string
	SecretKey    string
	CreatedAt    time.Time
}

// Registration is the sign-up request.
type Registration struct {
	Username string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
