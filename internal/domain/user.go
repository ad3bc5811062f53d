package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrInvalidGrant       = errors.New("invalid or expired grant")
)

type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
