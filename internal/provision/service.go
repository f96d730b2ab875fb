// Package provision creates the data every new user starts with.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
)

type Service struct {
	accounts   *account.Service
	categories *category.Service
}

func NewService(accounts *account.Service, categories *category.Service) *Service {
	return &Service{accounts: accounts, categories: categories}
}

// Provision creates the default cash account and the default categories.
// Anything that already exists is left untouched.
func (s *Service) Provision(ctx context.Context, ownerID uuid.UUID) error {
	_, err := s.accounts.Create(ctx, account.CreateParams{
		OwnerID:     ownerID,
		Name:        account.DefaultName,
		Description: account.DefaultDescription,
	})
	if err != nil && !errors.Is(err, account.ErrDuplicateName) {
		return fmt.Errorf("creating default account: %w", err)
	}

	if err := s.categories.EnsureDefaults(ctx, ownerID); err != nil {
		return fmt.Errorf("creating default categories: %w", err)
	}

	return nil
}
