package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const minPasswordLength = 8

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalid          = errors.New("invalid user")
	ErrMissingUsername  = fmt.Errorf("%w: username is required", ErrInvalid)
	ErrInvalidEmail     = fmt.Errorf("%w: a valid email is required", ErrInvalid)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrInvalid)
	ErrPasswordTooShort = fmt.Errorf("%w: password must have at least %d characters", ErrInvalid, minPasswordLength)
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
