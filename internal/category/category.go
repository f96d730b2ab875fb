package category

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already in use")

	ErrInvalid        = errors.New("invalid category")
	ErrMissingName    = fmt.Errorf("%w: name is required", ErrInvalid)
	ErrMissingPattern = fmt.Errorf("%w: pattern is required", ErrInvalid)
)

// Category groups records. Names are unique per owner.
type Category struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Rule maps a raw bank description fragment to a category.
type Rule struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Pattern    string
	CategoryID uuid.UUID
	CreatedAt  time.Time
}

// Defaults are created for every new user.
var Defaults = []Category{
	{Name: "Transport", Description: "Transport expenses"},
	{Name: "Health", Description: "Health expenses"},
	{Name: "Entertainment", Description: "Entertainment expenses"},
	{Name: "Pets", Description: "Pet expenses"},
	{Name: "Education", Description: "Education expenses"},
}
