package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/balance"
	"github.com/MrJamesThe3rd/money/internal/database"
	"github.com/MrJamesThe3rd/money/internal/record"
	recordstore "github.com/MrJamesThe3rd/money/internal/record/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// sumsQuery aggregates every balance term of the account referenced by ref in
// one statement, so all sums come from the same snapshot.
func sumsQuery(ref string) string {
	return fmt.Sprintf(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income' AND account_id = %[1]s), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND account_id = %[1]s), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'investment' AND account_id = %[1]s), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND to_account_id = %[1]s), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND from_account_id = %[1]s), 0)
		FROM records
		WHERE account_id = %[1]s OR from_account_id = %[1]s OR to_account_id = %[1]s`, ref)
}

const selectAccountColumns = `a.id, a.owner_id, a.name, a.description, a.currency, a.created_at, a.updated_at`

var selectSnapshot = `SELECT ` + selectAccountColumns + `,
		s.income, s.expense, s.investment, s.transfers_in, s.transfers_out
	FROM accounts a
	CROSS JOIN LATERAL (` + sumsQuery("a.id") + `
	) AS s (income, expense, investment, transfers_in, transfers_out)`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func accountFields(a *account.Account) []any {
	return []any{&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.Currency, &a.CreatedAt, &a.UpdatedAt}
}

func sumsFields(s *balance.Sums) []any {
	return []any{&s.Income, &s.Expense, &s.Investment, &s.TransfersIn, &s.TransfersOut}
}

func scanSnapshot(s scanner) (*account.Snapshot, error) {
	snap := &account.Snapshot{Account: &account.Account{}}

	if err := s.Scan(append(accountFields(snap.Account), sumsFields(&snap.Sums)...)...); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Snapshot, error) {
	query := selectSnapshot + ` WHERE a.owner_id = $1 AND a.id = $2`

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return snap, nil
}

func (s *Store) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*account.Snapshot, error) {
	query := selectSnapshot + ` WHERE a.owner_id = $1 ORDER BY a.created_at ASC, a.name ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var snaps []*account.Snapshot

	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return snaps, nil
}

// DeleteAccount removes the account. Its records go with it through the
// foreign key cascade.
func (s *Store) DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	if n == 0 {
		return account.ErrNotFound
	}

	return nil
}

func accountLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("account"))
	h.Write([]byte{0})
	h.Write(id[:])

	return int64(h.Sum64())
}

type accountTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (account.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning account tx: %w", err)
	}

	return &accountTx{tx: dbTx}, nil
}

func (atx *accountTx) Commit() error   { return atx.tx.Commit() }
func (atx *accountTx) Rollback() error { return atx.tx.Rollback() }

// LockAccount holds a transaction scoped advisory lock on the account until
// commit or rollback.
func (atx *accountTx) LockAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := atx.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", accountLockKey(id)); err != nil {
		return fmt.Errorf("acquiring account lock: %w", err)
	}

	return nil
}

func (atx *accountTx) GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.owner_id = $1 AND a.id = $2`

	var a account.Account
	if err := atx.tx.QueryRowContext(ctx, query, ownerID, id).Scan(accountFields(&a)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return &a, nil
}

func (atx *accountTx) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (owner_id, name, description, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := atx.tx.QueryRowContext(ctx, query,
		a.OwnerID,
		a.Name,
		a.Description,
		a.Currency,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return account.ErrDuplicateName
		}

		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (atx *accountTx) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4
		RETURNING updated_at
	`

	err := atx.tx.QueryRowContext(ctx, query, a.Name, a.Description, a.ID, a.OwnerID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		if _, ok := database.UniqueViolation(err); ok {
			return account.ErrDuplicateName
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (atx *accountTx) Sums(ctx context.Context, accountID uuid.UUID) (balance.Sums, error) {
	var sums balance.Sums
	if err := atx.tx.QueryRowContext(ctx, sumsQuery("$1"), accountID).Scan(sumsFields(&sums)...); err != nil {
		return balance.Sums{}, fmt.Errorf("summing records: %w", err)
	}

	return sums, nil
}

func (atx *accountTx) CreateRecord(ctx context.Context, r *record.Record) error {
	return recordstore.Insert(ctx, atx.tx, r)
}
