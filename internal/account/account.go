package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/balance"
)

const (
	// DefaultName is the account every new user is provisioned with.
	DefaultName        = "Cash"
	DefaultDescription = "Cash account"

	adjustmentTitle = "Balance adjustment"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrDuplicateName = errors.New("account name already in use")

	ErrInvalid        = errors.New("invalid account")
	ErrMissingName    = fmt.Errorf("%w: name is required", ErrInvalid)
	ErrInvalidBalance = fmt.Errorf("%w: balance does not fit the currency scale", ErrInvalid)
)

// Account is a user-owned container of records.
type Account struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Balance is derived from the ledger on every read and never persisted.
	Balance decimal.Decimal
}

// Snapshot pairs an account with ledger sums read in the same statement.
type Snapshot struct {
	Account *Account
	Sums    balance.Sums
}
