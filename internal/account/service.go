package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/balance"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
	"github.com/MrJamesThe3rd/money/internal/record"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*Snapshot, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*Snapshot, error)
	DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one storage transaction. Reads made through it observe its own
// writes, and LockAccount serializes concurrent reconciliations of the same
// account until Commit or Rollback.
type Tx interface {
	LockAccount(ctx context.Context, id uuid.UUID) error
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*Account, error)
	CreateAccount(ctx context.Context, a *Account) error
	UpdateAccount(ctx context.Context, a *Account) error
	Sums(ctx context.Context, accountID uuid.UUID) (balance.Sums, error)
	CreateRecord(ctx context.Context, r *record.Record) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo       Repository
	currencies *currency.Service
	publisher  events.Publisher
}

func NewService(repo Repository, currencies *currency.Service, publisher events.Publisher) *Service {
	return &Service{
		repo:       repo,
		currencies: currencies,
		publisher:  publisher,
	}
}

type CreateParams struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	Currency    string
	// Balance, when set, is the balance the account must show once created.
	Balance *decimal.Decimal
}

type UpdateParams struct {
	Name        *string
	Description *string
	// Balance, when set, is reconciled against the computed balance.
	Balance *decimal.Decimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	cur, err := s.currencies.Resolve(params.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if params.Balance != nil && !cur.FitsScale(*params.Balance) {
		return nil, ErrInvalidBalance
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create account: %w", err)
	}
	defer tx.Rollback()

	acc := &Account{
		OwnerID:     params.OwnerID,
		Name:        name,
		Description: params.Description,
		Currency:    cur.Code,
	}
	if err := tx.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	var adjustment *record.Record

	if params.Balance != nil {
		// A new account has no history, so the target is the whole difference.
		adjustment, err = s.reconcile(ctx, tx, acc, decimal.Zero, *params.Balance)
		if err != nil {
			return nil, err
		}
	}

	sums, err := tx.Sums(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}

	acc.Balance = balance.Calculate(sums, cur.MinorUnit)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create account: %w", err)
	}

	s.publishAdjustment(ctx, acc, adjustment)

	return acc, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Account, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update account: %w", err)
	}
	defer tx.Rollback()

	if err := tx.LockAccount(ctx, id); err != nil {
		return nil, fmt.Errorf("locking account: %w", err)
	}

	acc, err := tx.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	cur, err := s.currencies.Resolve(acc.Currency)
	if err != nil {
		return nil, fmt.Errorf("resolving account currency: %w", err)
	}

	if params.Balance != nil && !cur.FitsScale(*params.Balance) {
		return nil, ErrInvalidBalance
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrMissingName
		}

		acc.Name = name
	}

	if params.Description != nil {
		acc.Description = *params.Description
	}

	if err := tx.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	sums, err := tx.Sums(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}

	var adjustment *record.Record

	if params.Balance != nil {
		current := balance.Calculate(sums, cur.MinorUnit)

		adjustment, err = s.reconcile(ctx, tx, acc, current, *params.Balance)
		if err != nil {
			return nil, err
		}

		if adjustment != nil {
			if sums, err = tx.Sums(ctx, acc.ID); err != nil {
				return nil, fmt.Errorf("reading balance: %w", err)
			}
		}
	}

	acc.Balance = balance.Calculate(sums, cur.MinorUnit)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update account: %w", err)
	}

	s.publishAdjustment(ctx, acc, adjustment)

	return acc, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Account, error) {
	snap, err := s.repo.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	return s.withBalance(snap)
}

// List returns the owner's accounts, oldest first, with their balances.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Account, error) {
	snaps, err := s.repo.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*Account, 0, len(snaps))

	for _, snap := range snaps {
		acc, err := s.withBalance(snap)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// Balance returns the computed balance of the account and its currency code.
func (s *Service) Balance(ctx context.Context, ownerID, id uuid.UUID) (decimal.Decimal, string, error) {
	acc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return decimal.Zero, "", err
	}

	return acc.Balance, acc.Currency, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, ownerID, id)
}

// AccountCurrency implements record.AccountLookup.
func (s *Service) AccountCurrency(ctx context.Context, ownerID, accountID uuid.UUID) (string, bool, error) {
	snap, err := s.repo.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}

		return "", false, err
	}

	return snap.Account.Currency, true, nil
}

// reconcile stores the record that moves current to target, if any.
func (s *Service) reconcile(ctx context.Context, tx Tx, acc *Account, current, target decimal.Decimal) (*record.Record, error) {
	adj, ok := balance.Reconcile(current, target)
	if !ok {
		return nil, nil
	}

	accountID := acc.ID
	r := &record.Record{
		OwnerID:       acc.OwnerID,
		Title:         adjustmentTitle,
		Amount:        adj.Amount,
		Type:          adj.Type,
		AccountID:     &accountID,
		PaymentMethod: record.PaymentCash,
		Currency:      acc.Currency,
		OccurredAt:    time.Now().UTC(),
	}

	if err := tx.CreateRecord(ctx, r); err != nil {
		return nil, fmt.Errorf("creating balance adjustment: %w", err)
	}

	return r, nil
}

func (s *Service) withBalance(snap *Snapshot) (*Account, error) {
	cur, err := s.currencies.Resolve(snap.Account.Currency)
	if err != nil {
		return nil, fmt.Errorf("resolving account currency: %w", err)
	}

	acc := snap.Account
	acc.Balance = balance.Calculate(snap.Sums, cur.MinorUnit)

	return acc, nil
}

func (s *Service) publishAdjustment(ctx context.Context, acc *Account, r *record.Record) {
	if r == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.TopicBalanceAdjusted, events.BalanceAdjusted{
		AccountID: acc.ID,
		OwnerID:   acc.OwnerID,
		RecordID:  r.ID,
		Type:      string(r.Type),
		Amount:    r.Amount,
		Balance:   acc.Balance,
		Currency:  acc.Currency,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish balance adjustment", "account_id", acc.ID, "error", err)
	}
}
