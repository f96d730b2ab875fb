package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, ownerID, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
	DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error

	// FindRule returns the category of the longest pattern contained in
	// rawDescription, or nil when nothing matches.
	FindRule(ctx context.Context, ownerID uuid.UUID, rawDescription string) (*uuid.UUID, error)
	CreateRule(ctx context.Context, r *Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	c := &Category{
		OwnerID:     params.OwnerID,
		Name:        name,
		Description: params.Description,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, ownerID, id)
}

// CategoryExists implements record.CategoryLookup.
func (s *Service) CategoryExists(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetCategory(ctx, ownerID, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// EnsureDefaults creates the default categories the owner is missing.
// Calling it again is a no-op.
func (s *Service) EnsureDefaults(ctx context.Context, ownerID uuid.UUID) error {
	for _, d := range Defaults {
		c := &Category{
			OwnerID:     ownerID,
			Name:        d.Name,
			Description: d.Description,
			IsDefault:   true,
		}

		err := s.repo.CreateCategory(ctx, c)
		if errors.Is(err, ErrDuplicateName) {
			continue
		}

		if err != nil {
			return fmt.Errorf("creating default category %q: %w", d.Name, err)
		}
	}

	return nil
}

// Suggest tries to find a category for the given raw description.
// Returns nil if no rule matches.
func (s *Service) Suggest(ctx context.Context, ownerID uuid.UUID, rawDescription string) (*uuid.UUID, error) {
	return s.repo.FindRule(ctx, ownerID, rawDescription)
}

// Learn remembers that descriptions containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, ownerID uuid.UUID, pattern string, categoryID uuid.UUID) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrMissingPattern
	}

	if _, err := s.repo.GetCategory(ctx, ownerID, categoryID); err != nil {
		return nil, err
	}

	r := &Rule{
		OwnerID:    ownerID,
		Pattern:    pattern,
		CategoryID: categoryID,
	}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}
