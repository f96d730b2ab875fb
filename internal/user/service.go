package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Provisioner creates the default data a new user starts with.
type Provisioner interface {
	Provision(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo        Repository
	provisioner Provisioner
}

func NewService(repo Repository, provisioner Provisioner) *Service {
	return &Service{repo: repo, provisioner: provisioner}
}

type RegisterParams struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Register creates the user and then provisions its default data. Provisioning
// is idempotent, so a failed provisioning step can be retried on its own.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, ErrMissingUsername
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(params.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}

	if params.Password != params.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if len(params.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.repo.EmailExists(ctx, addr.Address)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        addr.Address,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	if err := s.provisioner.Provision(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("provisioning user %s: %w", u.ID, err)
	}

	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
