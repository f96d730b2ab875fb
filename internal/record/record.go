package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the kind of record. The sign of a record's effect on a
// balance is encoded by its type, never by the amount.
type Type string

const (
	TypeIncome     Type = "income"
	TypeExpense    Type = "expense"
	TypeTransfer   Type = "transfer"
	TypeInvestment Type = "investment"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer, TypeInvestment:
		return true
	}

	return false
}

// PaymentMethod represents how the money moved.
type PaymentMethod string

const (
	PaymentTransfer   PaymentMethod = "transfer"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentCash       PaymentMethod = "cash"
	PaymentCheque     PaymentMethod = "cheque"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentTransfer, PaymentDebitCard, PaymentCreditCard, PaymentCash, PaymentCheque:
		return true
	}

	return false
}

var (
	ErrNotFound = errors.New("record not found")

	// ErrInvalid is wrapped by every validation error so callers can treat
	// them as user input errors.
	ErrInvalid = errors.New("invalid record")

	ErrInvalidType          = fmt.Errorf("%w: unknown type", ErrInvalid)
	ErrInvalidPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrInvalid)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be positive and fit the currency scale", ErrInvalid)
	ErrMissingTitle         = fmt.Errorf("%w: title is required", ErrInvalid)
	ErrMissingAccount       = fmt.Errorf("%w: account is required", ErrInvalid)
	ErrMissingTransferLeg   = fmt.Errorf("%w: transfer requires from and to accounts", ErrInvalid)
	ErrUnexpectedAccount    = fmt.Errorf("%w: account fields do not match the record type", ErrInvalid)
	ErrSameAccount          = fmt.Errorf("%w: from and to accounts must differ", ErrInvalid)
	ErrAccountNotOwned      = fmt.Errorf("%w: account must belong to the owner", ErrInvalid)
	ErrCategoryNotOwned     = fmt.Errorf("%w: category must belong to the owner", ErrInvalid)
	ErrCurrencyMismatch     = fmt.Errorf("%w: currency does not match the account currency", ErrInvalid)
)

// Record is a single ledger entry. Records are immutable once persisted.
type Record struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	Description   string
	Amount        decimal.Decimal
	Type          Type
	AccountID     *uuid.UUID // Set for every type except transfer
	FromAccountID *uuid.UUID // Transfer legs
	ToAccountID   *uuid.UUID
	CategoryID    *uuid.UUID
	PaymentMethod PaymentMethod
	Currency      string
	OccurredAt    time.Time
	CreatedAt     time.Time
}

// Touches reports whether the record affects the balance of the given account.
func (r *Record) Touches(accountID uuid.UUID) bool {
	for _, id := range []*uuid.UUID{r.AccountID, r.FromAccountID, r.ToAccountID} {
		if id != nil && *id == accountID {
			return true
		}
	}

	return false
}

// AccountIDs returns every account the record touches.
func (r *Record) AccountIDs() []uuid.UUID {
	var ids []uuid.UUID

	for _, id := range []*uuid.UUID{r.AccountID, r.FromAccountID, r.ToAccountID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}

	return ids
}
